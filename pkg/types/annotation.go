// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Annotation is one recognized ⟨Category#track: text⟩ span.
type Annotation struct {
	// Category is the annotation tag, e.g. "Cog1", "Cog2p", "TD_past".
	Category string `json:"category" yaml:"category"`

	// Track groups annotations that describe the same referent.
	Track string `json:"track" yaml:"track"`

	// Text is the annotated content with delimiters removed and whitespace trimmed.
	Text string `json:"text" yaml:"text"`

	// Offset is the byte offset of the opening delimiter in the scanned text.
	Offset int `json:"offset" yaml:"offset"`
}

// Section is a span of the source text that starts at a Bekker-style
// citation line (e.g. "486a.1") and runs up to the next one.
// Start and End are half-open byte offsets.
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// Contains reports whether the byte offset falls inside the section.
func (s Section) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}
