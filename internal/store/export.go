// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one stored activity as written to export files.
type ExportEntry struct {
	Version     string         `json:"version" yaml:"version"`
	Code        string         `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Dimension   string         `json:"dimension" yaml:"dimension"`
	Provenance  string         `json:"provenance" yaml:"provenance"`
	LinkedTrack string         `json:"linked_track,omitempty" yaml:"linked_track,omitempty"`
	Scores      map[string]int `json:"score_vector" yaml:"score_vector"`
}

const exportLimit = 100000

// ExportYAML writes matching activities to dir/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching activities to dir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.Query = ""
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			Version:     r.Version,
			Code:        r.Code,
			Name:        r.Name,
			Dimension:   r.Dimension,
			Provenance:  string(r.Provenance),
			LinkedTrack: r.LinkedTrack,
			Scores:      r.ScoreVector,
		}
	}
	return entries, nil
}
