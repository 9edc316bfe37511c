// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate extracts ⟨Category#track: text⟩ annotations from raw text.
// Malformed occurrences never match and are silently skipped.
package annotate

import (
	"regexp"
	"strings"

	"github.com/pdiddy/coggraph/pkg/types"
)

// annotationRe matches one annotation. Category and track exclude the
// separators and delimiters; content runs up to the closing delimiter.
var annotationRe = regexp.MustCompile(`⟨([^#:⟨⟩]+)#([^#:⟨⟩]+):([^⟩]+)⟩`)

// Extract returns every annotation in text in document order.
func Extract(text string) []types.Annotation {
	var anns []types.Annotation
	for _, m := range annotationRe.FindAllStringSubmatchIndex(text, -1) {
		category := strings.TrimSpace(text[m[2]:m[3]])
		track := strings.TrimSpace(text[m[4]:m[5]])
		if category == "" || track == "" {
			continue
		}
		anns = append(anns, types.Annotation{
			Category: category,
			Track:    track,
			Text:     strings.TrimSpace(text[m[6]:m[7]]),
			Offset:   m[0],
		})
	}
	return anns
}

// ByCategory returns the annotations whose category equals category.
func ByCategory(anns []types.Annotation, category string) []types.Annotation {
	var out []types.Annotation
	for _, a := range anns {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// ByTrack returns the annotations whose track equals track.
func ByTrack(anns []types.Annotation, track string) []types.Annotation {
	var out []types.Annotation
	for _, a := range anns {
		if a.Track == track {
			out = append(out, a)
		}
	}
	return out
}

// Tracks returns the distinct track IDs in first-seen order.
func Tracks(anns []types.Annotation) []string {
	seen := make(map[string]bool)
	var tracks []string
	for _, a := range anns {
		if seen[a.Track] {
			continue
		}
		seen[a.Track] = true
		tracks = append(tracks, a.Track)
	}
	return tracks
}

// CountByCategory tallies annotations per category.
func CountByCategory(anns []types.Annotation) map[string]int {
	counts := make(map[string]int)
	for _, a := range anns {
		counts[a.Category]++
	}
	return counts
}
