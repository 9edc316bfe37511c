// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultOutputDir is the directory graphs are written to when none is configured.
const DefaultOutputDir = "graphs"

// DefaultDocumentTitle labels graphs built from a whole document.
const DefaultDocumentTitle = "Full Document"

// GraphConfig holds settings for graph generation.
type GraphConfig struct {
	// OutputDir is the directory DOT files are written to (default "graphs").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DocumentTitle is the graph title used when no section is requested
	// (default "Full Document").
	DocumentTitle string `json:"title" yaml:"title"`
}

// IndexConfig holds settings for the SQLite annotation index.
type IndexConfig struct {
	// Dir is the directory holding annotations.db and exports (default "index").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all settings read from coggraph.yaml.
type Config struct {
	Graph   GraphConfig `json:"graph" yaml:"graph"`
	Index   IndexConfig `json:"index" yaml:"index"`
	Verbose bool        `json:"verbose" yaml:"verbose"`
}
