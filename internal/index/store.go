// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps a SQLite index of the annotations found in a set of
// annotated documents so they can be searched and exported across files.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/coggraph/internal/annotate"
	"github.com/pdiddy/coggraph/internal/logger"
	"github.com/pdiddy/coggraph/internal/section"
	"github.com/pdiddy/coggraph/pkg/types"
)

const (
	defaultDir        = "index"
	dbFile            = "annotations.db"
	defaultMaxResults = 20
)

// Store manages the annotation index database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// fts is false when the SQLite build lacks FTS5; text queries then
	// fall back to LIKE matching.
	fts bool
}

// NewStore opens or creates dir/annotations.db and its schema.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, dbFile)+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL,
			mod_time TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS annotations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			track TEXT NOT NULL,
			content TEXT NOT NULL,
			pos INTEGER NOT NULL,
			section TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_doc ON annotations(doc_id)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_category ON annotations(category)`,
		`CREATE INDEX IF NOT EXISTS idx_annotations_track ON annotations(doc_id, track)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='annotations_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE annotations_fts USING fts5(content, content=annotations, content_rowid=rowid)`,
	); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			logger.Warn("SQLite built without FTS5; text queries use LIKE", "hint", "build with -tags sqlite_fts5")
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER annotations_ai AFTER INSERT ON annotations BEGIN
			INSERT INTO annotations_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER annotations_ad AFTER DELETE ON annotations BEGIN
			INSERT INTO annotations_fts(annotations_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS triggers: %w", err)
		}
	}
	s.fts = true
	return nil
}

// IngestSummary holds counts from one indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of documents processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// DocumentID derives a document ID from its path: the base name without
// extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ingest indexes the annotations of each file in paths. Files whose
// modification time matches the last run are skipped; changed files have
// their annotations replaced. A file whose ID is already held by a document
// at another path is counted as failed. Per-file failures are reported on w
// and counted, not returned.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := DocumentID(path)

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		absPath, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		var storedModTime, storedPath string
		err = s.db.QueryRowContext(ctx,
			`SELECT mod_time, path FROM documents WHERE id = ?`, docID,
		).Scan(&storedModTime, &storedPath)
		if err == nil && storedPath != absPath {
			fmt.Fprintf(w, "failed  %s: document ID already indexed from %s\n", docID, storedPath)
			summary.Failed++
			continue
		}
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		n, err := s.ingestDocument(ctx, docID, absPath, string(data), modTime)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d annotations)\n", docID, n)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d annotations)\n", docID, n)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, docID, path, text, modTime string) (int, error) {
	anns := annotate.Extract(text)
	sections := section.Find(text)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM annotations WHERE doc_id = ?`, docID); err != nil {
		return 0, fmt.Errorf("deleting old annotations: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, path, mod_time) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET path=excluded.path, mod_time=excluded.mod_time`,
		docID, path, modTime,
	)
	if err != nil {
		return 0, fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO annotations (doc_id, category, track, content, pos, section)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range anns {
		_, err := stmt.ExecContext(ctx,
			docID, a.Category, a.Track, a.Text, a.Offset,
			section.Containing(sections, a.Offset),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting annotation at offset %d: %w", a.Offset, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing: %w", err)
	}
	return len(anns), nil
}
