// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Format selects an export encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

const exportLimit = 1000000

// Export writes the matching annotations to <dir>/export.yaml or
// export.json and returns the written path.
func (s *Store) Export(ctx context.Context, opts QueryOptions, format Format) (string, error) {
	if format == "" {
		format = FormatYAML
	}
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []Result{}
	}

	data, err := Encode(results, format)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export."+string(format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// Encode marshals v as YAML or JSON.
func Encode(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
