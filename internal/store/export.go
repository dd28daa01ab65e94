// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

const exportLimit = 100000

// ExportYAML writes the paper index to dataDir/index/export.yaml. It
// supports the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) error {
	papers, err := s.exportPapers(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	data, err := yaml.Marshal(papers)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the paper index to dataDir/index/export.json. It
// supports the same filters as Retrieve.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) error {
	papers, err := s.exportPapers(ctx, opts)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dataDir, indexDir, "export.json")
	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Store) exportPapers(ctx context.Context, opts QueryOptions) ([]types.Paper, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = exportLimit
	}
	papers, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, err
	}
	if papers == nil {
		papers = []types.Paper{}
	}
	return papers, nil
}
