// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section splits annotated text into sections bounded by
// Bekker-style citation lines such as "486a.1" or "487b.15".
package section

import (
	"regexp"
	"strings"

	"github.com/pdiddy/coggraph/pkg/types"
)

// bekkerRe matches a whole trimmed line holding a Bekker number.
var bekkerRe = regexp.MustCompile(`^\d{3}[ab]\.\d+$`)

// IsBoundary reports whether line, once trimmed, is a citation marker.
func IsBoundary(line string) bool {
	return bekkerRe.MatchString(strings.TrimSpace(line))
}

// Find walks text line by line and returns the sections in document order.
// Each section starts at its marker line and ends where the next one starts;
// the last ends at len(text). Text before the first marker belongs to no
// section, and text without markers yields no sections.
func Find(text string) []types.Section {
	var sections []types.Section
	var current *types.Section
	pos := 0

	for _, line := range strings.Split(text, "\n") {
		if IsBoundary(line) {
			if current != nil {
				current.End = pos
				sections = append(sections, *current)
			}
			current = &types.Section{ID: strings.TrimSpace(line), Start: pos}
		}
		pos += len(line) + 1
	}

	if current != nil {
		current.End = len(text)
		sections = append(sections, *current)
	}
	return sections
}

// Slice returns text[start:end] with both offsets clamped to the text.
func Slice(text string, start, end int) string {
	start = clamp(start, 0, len(text))
	end = clamp(end, start, len(text))
	return text[start:end]
}

// Text returns the source text covered by sec.
func Text(text string, sec types.Section) string {
	return Slice(text, sec.Start, sec.End)
}

// Lookup returns the section with the given ID.
func Lookup(sections []types.Section, id string) (types.Section, bool) {
	for _, s := range sections {
		if s.ID == id {
			return s, true
		}
	}
	return types.Section{}, false
}

// IDs returns the section IDs in document order.
func IDs(sections []types.Section) []string {
	ids := make([]string, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

// Containing returns the ID of the section holding offset, or "" if none does.
func Containing(sections []types.Section, offset int) string {
	for _, s := range sections {
		if s.Contains(offset) {
			return s.ID
		}
	}
	return ""
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
