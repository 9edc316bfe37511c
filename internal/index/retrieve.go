// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pdiddy/coggraph/internal/section"
	"github.com/pdiddy/coggraph/pkg/types"
)

// QueryOptions holds parameters for index queries. Empty fields do not filter.
type QueryOptions struct {
	// Query is a full-text search over annotation content.
	Query string

	Category string
	Track    string
	DocID    string
	Section  string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Category == "" && q.Track == "" && q.DocID == "" && q.Section == ""
}

// Result is an indexed annotation with its provenance.
type Result struct {
	ID               int64 `json:"id" yaml:"id"`
	types.Annotation `yaml:",inline"`
	DocID            string `json:"doc_id" yaml:"doc_id"`
	Section          string `json:"section,omitempty" yaml:"section,omitempty"`
}

// Retrieve queries the index. Full-text queries are ranked by relevance;
// filter-only queries are ordered by document and position.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.rowid, a.category, a.track, a.content, a.pos, a.doc_id, a.section
			FROM annotations_fts
			JOIN annotations a ON a.rowid = annotations_fts.rowid
			WHERE annotations_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT a.rowid, a.category, a.track, a.content, a.pos, a.doc_id, a.section
			FROM annotations a
			WHERE 1=1`)
		if opts.Query != "" {
			qb.WriteString(` AND a.content LIKE ?`)
			args = append(args, "%"+opts.Query+"%")
		}
	}

	if opts.Category != "" {
		qb.WriteString(` AND a.category = ?`)
		args = append(args, opts.Category)
	}
	if opts.Track != "" {
		qb.WriteString(` AND a.track = ?`)
		args = append(args, opts.Track)
	}
	if opts.DocID != "" {
		qb.WriteString(` AND a.doc_id = ?`)
		args = append(args, opts.DocID)
	}
	if opts.Section != "" {
		qb.WriteString(` AND a.section = ?`)
		args = append(args, opts.Section)
	}

	if useFTS {
		qb.WriteString(` ORDER BY annotations_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.doc_id, a.pos`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r   Result
			sec sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Category, &r.Track, &r.Text, &r.Offset, &r.DocID, &sec); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Section = sec.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// Trace returns the source text surrounding an indexed annotation: its
// section when it has one, otherwise the whole document.
func (s *Store) Trace(ctx context.Context, id int64) (string, error) {
	var path, sectionID string
	var sec sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT d.path, a.section FROM annotations a
		 JOIN documents d ON d.id = a.doc_id
		 WHERE a.rowid = ?`, id,
	).Scan(&path, &sec)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("annotation %d not found", id)
		}
		return "", fmt.Errorf("looking up annotation: %w", err)
	}
	sectionID = sec.String

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)

	if sectionID != "" {
		if found, ok := section.Lookup(section.Find(text), sectionID); ok {
			return strings.TrimSpace(section.Text(text, found)), nil
		}
	}
	return strings.TrimSpace(text), nil
}
