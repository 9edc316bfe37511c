// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coggraph/pkg/types"
)

const metaphysics = `Intro ⟨Cog5#9: table⟩
486a.1
The ⟨Cog1#1: knife⟩ is ⟨Cog2p#1: sharp⟩.
486a.5
The ⟨Cog1#2: bowl⟩ is ⟨Cog2p#2: deep⟩ and ⟨Cog2t#2: empty⟩.
`

const poetics = `487b.2
The ⟨Cog1#1: poet⟩ ⟨Cog2v#1: imitates⟩ a ⟨Cog3Der#1: sharp verse⟩.
`

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(types.IndexConfig{Dir: filepath.Join(dir, "index"), MaxResults: 20})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, dir
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ingestSamples(t *testing.T) (*Store, []string) {
	t.Helper()
	store, dir := testStore(t)
	paths := []string{
		writeDoc(t, dir, "metaphysics.txt", metaphysics),
		writeDoc(t, dir, "poetics.txt", poetics),
	}
	var out bytes.Buffer
	summary, err := store.Ingest(context.Background(), paths, &out)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Indexed, out.String())
	return store, paths
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "metaphysics", DocumentID("/texts/metaphysics.txt"))
	assert.Equal(t, "notes", DocumentID("notes"))
}

func TestIngestAndRetrieveByFilters(t *testing.T) {
	store, _ := ingestSamples(t)
	ctx := context.Background()

	all, err := store.Retrieve(ctx, QueryOptions{MaxResults: 100})
	require.NoError(t, err)
	assert.Len(t, all, 9)

	props, err := store.Retrieve(ctx, QueryOptions{Category: "Cog2p"})
	require.NoError(t, err)
	require.Len(t, props, 2)
	assert.Equal(t, "sharp", props[0].Text)
	assert.Equal(t, "486a.1", props[0].Section)
	assert.Equal(t, "deep", props[1].Text)
	assert.Equal(t, "486a.5", props[1].Section)

	track, err := store.Retrieve(ctx, QueryOptions{DocID: "poetics", Track: "1"})
	require.NoError(t, err)
	require.Len(t, track, 3)
	assert.Equal(t, "poet", track[0].Text)
	assert.Equal(t, "487b.2", track[0].Section)

	outside, err := store.Retrieve(ctx, QueryOptions{Category: "Cog5"})
	require.NoError(t, err)
	require.Len(t, outside, 1)
	assert.Equal(t, "", outside[0].Section)
	assert.Equal(t, "metaphysics", outside[0].DocID)

	sec, err := store.Retrieve(ctx, QueryOptions{Section: "486a.5"})
	require.NoError(t, err)
	assert.Len(t, sec, 3)

	limited, err := store.Retrieve(ctx, QueryOptions{MaxResults: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRetrieveFullText(t *testing.T) {
	store, _ := ingestSamples(t)

	results, err := store.Retrieve(context.Background(), QueryOptions{Query: "sharp"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	texts := []string{results[0].Text, results[1].Text}
	assert.ElementsMatch(t, []string{"sharp", "sharp verse"}, texts)
}

func TestIngestSkipsUnchangedAndReplacesChanged(t *testing.T) {
	store, paths := ingestSamples(t)
	ctx := context.Background()

	var out bytes.Buffer
	summary, err := store.Ingest(ctx, paths, &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Skipped: 2}, summary)
	assert.Contains(t, out.String(), "skipped metaphysics")

	require.NoError(t, os.WriteFile(paths[1], []byte("⟨Cog1#1: playwright⟩"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(paths[1], later, later))

	out.Reset()
	summary, err = store.Ingest(ctx, paths, &out)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1, Skipped: 1}, summary)
	assert.Equal(t, 2, summary.Total())

	results, err := store.Retrieve(ctx, QueryOptions{DocID: "poetics"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "playwright", results[0].Text)
}

func TestIngestCountsFailures(t *testing.T) {
	store, dir := testStore(t)
	var out bytes.Buffer

	summary, err := store.Ingest(context.Background(), []string{filepath.Join(dir, "missing.txt")}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, out.String(), "failed  missing")
}

func TestIngestRejectsSameNameFromAnotherDirectory(t *testing.T) {
	store, dir := testStore(t)
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	first := writeDoc(t, filepath.Join(dir, "a"), "book.txt", "⟨Cog1#1: alpha⟩")
	second := writeDoc(t, filepath.Join(dir, "b"), "book.txt", "⟨Cog1#1: beta⟩")

	var out bytes.Buffer
	summary, err := store.Ingest(ctx, []string{first, second}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Indexed)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, out.String(), "failed  book: document ID already indexed from "+first)

	results, err := store.Retrieve(ctx, QueryOptions{DocID: "book"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha", results[0].Text)

	// Re-ingesting from the original path still works.
	out.Reset()
	summary, err = store.Ingest(ctx, []string{first}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
}

func TestIngestCancelled(t *testing.T) {
	store, dir := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Ingest(ctx, []string{writeDoc(t, dir, "a.txt", poetics)}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrace(t *testing.T) {
	store, _ := ingestSamples(t)
	ctx := context.Background()

	results, err := store.Retrieve(ctx, QueryOptions{Category: "Cog2t"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	text, err := store.Trace(ctx, results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "486a.5\nThe ⟨Cog1#2: bowl⟩ is ⟨Cog2p#2: deep⟩ and ⟨Cog2t#2: empty⟩.", text)

	_, err = store.Trace(ctx, 99999)
	assert.ErrorContains(t, err, "not found")
}

func TestExport(t *testing.T) {
	store, _ := ingestSamples(t)
	ctx := context.Background()

	path, err := store.Export(ctx, QueryOptions{DocID: "poetics"}, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "export.yaml", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var fromYAML []Result
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	require.Len(t, fromYAML, 3)
	assert.Equal(t, "Cog1", fromYAML[0].Category)
	assert.Equal(t, "poet", fromYAML[0].Text)

	path, err = store.Export(ctx, QueryOptions{}, FormatJSON)
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var fromJSON []Result
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON, 9)

	_, err = store.Export(ctx, QueryOptions{}, Format("xml"))
	assert.ErrorContains(t, err, "unsupported format")
}
