// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coggraph/internal/logger"
	"github.com/pdiddy/coggraph/pkg/types"
)

const sampleText = `Prologue ⟨Cog1#0: prologue object⟩
486a.1
The ⟨Cog1#1: knife⟩ is ⟨Cog2p#1: sharp⟩ and ⟨Cog2v#1: cuts⟩.
486a.5
A ⟨Cog1#2: bowl⟩ sits in the ⟨Cog4#2: kitchen⟩ ⟨TD_past#2: yesterday⟩.
`

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		source  string
		section string
		want    string
	}{
		{"texts/metaphysics.txt", "", "graph_metaphysics.dot"},
		{"texts/poetics.annotated.md", "", "graph_poetics.annotated.dot"},
		{"noext", "", "graph_noext.dot"},
		{"texts/a.txt", "486a.1", "graph_486a_1.dot"},
		{"texts/a.txt", "486a/1", "graph_486a_1.dot"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.source, tt.section))
		})
	}
}

func TestGenerateWholeDocument(t *testing.T) {
	src := writeSource(t, "physics.txt", sampleText)
	outDir := filepath.Join(t.TempDir(), "graphs")

	res, err := Generate(types.GraphConfig{OutputDir: outDir}, src, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "graph_physics.dot"), res.OutputPath)
	assert.Equal(t, 7, res.Annotations)
	assert.Equal(t, "", res.Section)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	dot := string(data)
	assert.Contains(t, dot, `label="Full Document";`)
	assert.Contains(t, dot, `[label="prologue object"`)
	assert.Contains(t, dot, `[label="kitchen"`)
}

type debugRecorder struct {
	entries map[string][]any
}

func (r *debugRecorder) Debug(m string, kv ...any) { r.entries[m] = kv }
func (r *debugRecorder) Info(string, ...any)      {}
func (r *debugRecorder) Warn(string, ...any)      {}
func (r *debugRecorder) Error(string, ...any)     {}

func TestGenerateCountsCategories(t *testing.T) {
	rec := &debugRecorder{entries: map[string][]any{}}
	logger.Init(rec)
	t.Cleanup(func() { logger.Init() })

	src := writeSource(t, "physics.txt", sampleText)
	res, err := Generate(types.GraphConfig{OutputDir: t.TempDir()}, src, "")
	require.NoError(t, err)

	want := map[string]int{"Cog1": 3, "Cog2p": 1, "Cog2v": 1, "Cog4": 1, "TD_past": 1}
	assert.Equal(t, want, res.Categories)
	assert.Equal(t,
		[]any{"Cog1", 3, "Cog2p", 1, "Cog2v", 1, "Cog4", 1, "TD_past", 1},
		rec.entries["annotations by category"])
}

func TestGenerateSection(t *testing.T) {
	src := writeSource(t, "physics.txt", sampleText)
	outDir := t.TempDir()

	res, err := Generate(types.GraphConfig{OutputDir: outDir}, src, "486a.1")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(outDir, "graph_486a_1.dot"), res.OutputPath)
	assert.Equal(t, "486a.1", res.Section)
	assert.Equal(t, 3, res.Annotations)
	assert.Equal(t, 3, res.Nodes)
	assert.Equal(t, 2, res.Edges)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	dot := string(data)
	assert.Contains(t, dot, `label="486a.1";`)
	assert.Contains(t, dot, `[label="knife"`)
	assert.NotContains(t, dot, "bowl")
	assert.NotContains(t, dot, "prologue")
}

func TestGenerateUnknownSection(t *testing.T) {
	src := writeSource(t, "book.txt", "487b.2\n⟨Cog1#1: knife⟩\n")
	outDir := filepath.Join(t.TempDir(), "graphs")

	res, err := Generate(types.GraphConfig{OutputDir: outDir}, src, "486a.1")
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrSectionNotFound))

	var notFound *SectionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "486a.1", notFound.ID)
	assert.Equal(t, []string{"487b.2"}, notFound.Available)
	assert.Contains(t, err.Error(), "487b.2")

	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestGenerateUnreadableSource(t *testing.T) {
	_, err := Generate(types.GraphConfig{OutputDir: t.TempDir()}, filepath.Join(t.TempDir(), "missing.txt"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading source")
}

func TestGenerateOverwritesAndLeavesNoTempFiles(t *testing.T) {
	src := writeSource(t, "doc.txt", "⟨Cog1#1: first⟩")
	outDir := t.TempDir()
	cfg := types.GraphConfig{OutputDir: outDir, DocumentTitle: "Doc"}

	_, err := Generate(cfg, src, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(src, []byte("⟨Cog1#1: second⟩"), 0o644))
	res, err := Generate(cfg, src, "")
	require.NoError(t, err)

	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.Contains(t, string(data), `label="Doc";`)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "graph_doc.dot", entries[0].Name())
}

func TestSelectNoSectionsAvailable(t *testing.T) {
	_, err := Select("no markers here", "486a.1", "")
	var notFound *SectionNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Empty(t, notFound.Available)
	assert.Contains(t, err.Error(), "no sections")
}

func TestSummarize(t *testing.T) {
	long := strings.Repeat("ω", 100)
	text := "486a.1\n⟨Cog1#1: knife⟩ ⟨Cog2p#1: sharp⟩\n486b.2\n" + long

	sums := Summarize(text)
	require.Len(t, sums, 2)

	assert.Equal(t, "486a.1", sums[0].ID)
	assert.Equal(t, 2, sums[0].Annotations)
	assert.Equal(t, "486a.1\n⟨Cog1#1: knife⟩ ⟨Cog2p#1: sharp⟩", sums[0].Preview)

	assert.Equal(t, 0, sums[1].Annotations)
	assert.True(t, strings.HasSuffix(sums[1].Preview, "..."))
	assert.Equal(t, "486b.2\n"+strings.Repeat("ω", 73)+"...", sums[1].Preview)
}

func TestListSections(t *testing.T) {
	src := writeSource(t, "physics.txt", sampleText)
	sums, err := ListSections(src)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, 3, sums[0].Annotations)
	assert.Equal(t, 3, sums[1].Annotations)

	_, err = ListSections(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
