// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires extraction, segmentation, and graph building
// together: it reads an annotated text, scopes it to one section when asked,
// and writes the resulting DOT file.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/coggraph/internal/annotate"
	"github.com/pdiddy/coggraph/internal/graph"
	"github.com/pdiddy/coggraph/internal/logger"
	"github.com/pdiddy/coggraph/internal/section"
	"github.com/pdiddy/coggraph/pkg/types"
)

// ErrSectionNotFound is matched by SectionNotFoundError.
var ErrSectionNotFound = errors.New("section not found")

// SectionNotFoundError reports an unknown section ID along with the IDs
// present in the document.
type SectionNotFoundError struct {
	ID        string
	Available []string
}

func (e *SectionNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("section %q not found: document has no sections", e.ID)
	}
	return fmt.Sprintf("section %q not found; available sections: %s", e.ID, strings.Join(e.Available, ", "))
}

func (e *SectionNotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}

// Result describes one generated graph.
type Result struct {
	OutputPath  string
	Section     string
	Annotations int
	Categories  map[string]int // annotations per category
	Nodes       int
	Edges       int
	Dropped     int
}

// Scope is the text a graph is built from.
type Scope struct {
	Title string
	Text  string
	// Section is empty for the whole document.
	Section string
}

// Select returns the whole text when sectionID is empty, otherwise the text
// of the named section. An unknown section yields a *SectionNotFoundError.
func Select(text, sectionID, documentTitle string) (Scope, error) {
	if sectionID == "" {
		if documentTitle == "" {
			documentTitle = types.DefaultDocumentTitle
		}
		return Scope{Title: documentTitle, Text: text}, nil
	}

	sections := section.Find(text)
	sec, ok := section.Lookup(sections, sectionID)
	if !ok {
		return Scope{}, &SectionNotFoundError{ID: sectionID, Available: section.IDs(sections)}
	}
	return Scope{Title: sectionID, Text: section.Text(text, sec), Section: sectionID}, nil
}

// Generate builds the graph for sourcePath (or one of its sections) and
// writes it to cfg.OutputDir. Nothing is written when the section is unknown.
func Generate(cfg types.GraphConfig, sourcePath, sectionID string) (*Result, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", sourcePath, err)
	}

	scope, err := Select(string(data), sectionID, cfg.DocumentTitle)
	if err != nil {
		return nil, err
	}

	anns := annotate.Extract(scope.Text)
	counts := annotate.CountByCategory(anns)
	logger.Debug("annotations by category", categoryKeyvals(counts)...)

	g := graph.Build(anns, scope.Title)
	if g.Dropped > 0 {
		logger.Debug("dropped annotations from tracks without an anchor object", "count", g.Dropped)
	}
	content := g.DOT()

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = types.DefaultOutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(outDir, OutputName(sourcePath, sectionID))
	if err := writeFile(outPath, []byte(content)); err != nil {
		return nil, err
	}
	logger.Debug("graph written", "path", outPath, "nodes", len(g.Nodes), "edges", len(g.Edges))

	return &Result{
		OutputPath:  outPath,
		Section:     scope.Section,
		Annotations: len(anns),
		Categories:  counts,
		Nodes:       len(g.Nodes),
		Edges:       len(g.Edges),
		Dropped:     g.Dropped,
	}, nil
}

// categoryKeyvals flattens counts into logger key/value pairs in category
// order.
func categoryKeyvals(counts map[string]int) []any {
	categories := make([]string, 0, len(counts))
	for c := range counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	keyvals := make([]any, 0, 2*len(categories))
	for _, c := range categories {
		keyvals = append(keyvals, c, counts[c])
	}
	return keyvals
}

var sectionSeparators = strings.NewReplacer(".", "_", "/", "_", `\`, "_")

// OutputName derives the DOT filename: graph_<section>.dot with separators
// replaced by underscores, or graph_<source base name>.dot for the whole
// document.
func OutputName(sourcePath, sectionID string) string {
	if sectionID != "" {
		return "graph_" + sectionSeparators.Replace(sectionID) + ".dot"
	}
	base := filepath.Base(sourcePath)
	return "graph_" + strings.TrimSuffix(base, filepath.Ext(base)) + ".dot"
}

// writeFile writes data through a temporary file in the same directory and
// renames it into place, so path holds either the old or the full new content.
func writeFile(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".graph-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
