// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/coggraph/internal/annotate"
	"github.com/pdiddy/coggraph/internal/section"
	"github.com/pdiddy/coggraph/pkg/types"
)

// previewRunes is the length of a section preview.
const previewRunes = 80

// SectionSummary describes one section for list mode.
type SectionSummary struct {
	types.Section `yaml:",inline"`
	Annotations int    `json:"annotations" yaml:"annotations"`
	Preview     string `json:"preview" yaml:"preview"`
}

// ListSections reads sourcePath and summarizes its sections.
func ListSections(sourcePath string) ([]SectionSummary, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("reading source %s: %w", sourcePath, err)
	}
	return Summarize(string(data)), nil
}

// Summarize returns a summary for every section of text.
func Summarize(text string) []SectionSummary {
	sections := section.Find(text)
	out := make([]SectionSummary, len(sections))
	for i, sec := range sections {
		body := section.Text(text, sec)
		out[i] = SectionSummary{
			Section:     sec,
			Annotations: len(annotate.Extract(body)),
			Preview:     preview(body),
		}
	}
	return out
}

// preview returns the first previewRunes runes of body, trimmed, with an
// ellipsis when body is longer.
func preview(body string) string {
	if utf8.RuneCountInString(body) <= previewRunes {
		return strings.TrimSpace(body)
	}
	cut := 0
	for i := 0; i < previewRunes; i++ {
		_, size := utf8.DecodeRuneInString(body[cut:])
		cut += size
	}
	return strings.TrimSpace(body[:cut]) + "..."
}
