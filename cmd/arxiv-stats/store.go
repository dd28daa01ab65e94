// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
	"github.com/pdiddy/arxiv-stats/internal/store"
	"github.com/pdiddy/arxiv-stats/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the local paper index (ingest, query, export)",
	Long: `Store maintains a local SQLite index of paper records with FTS5
full-text search over titles and keywords. Use subcommands to ingest a
paper-record CSV, query the index, or export it to YAML/JSON.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a paper-record CSV into the index",
	Long: `Ingest upserts every record of a paper-record CSV into the SQLite
index. Records without a derivable paper ID are reported and skipped; the
run continues.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		return fmt.Errorf("--input is required")
	}

	t, err := dataset.Load(input)
	if err != nil {
		return err
	}

	s, err := store.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(context.Background(), t, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d record(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the paper index with full-text search and filters",
	Long: `Query searches the paper index using FTS5 full-text search over
titles and keywords, structured filters (category, author), or both.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	s, err := store.NewStore(storeConfigFromFlags(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	opts := storeOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --category, or --author")
	}

	papers, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatPapers(papers, jsonOutput)
}

func formatPapers(papers []types.Paper, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(papers)
	}

	if len(papers) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-14s  %-50s  %-14s  %s\n",
		"Rank", "ID", "Title", "Category", "Date")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, p := range papers {
		title := p.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-14s  %-50s  %-14s  %s\n",
			i+1, p.ID, title, p.Category, p.Date)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(papers))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the paper index to YAML or JSON",
	Long: `Export writes the full paper index (or a filtered subset) to
data/index/export.yaml or export.json. Supports the same filter flags as
query for partial exports.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	cfg := storeConfigFromFlags(cmd)
	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := storeOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if err := s.ExportYAML(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.yaml\n", cfg.DataDir)
	case "json":
		if err := s.ExportJSON(context.Background(), opts); err != nil {
			return err
		}
		fmt.Printf("Exported to %s/index/export.json\n", cfg.DataDir)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	return nil
}

// --- shared helpers ---

func storeConfigFromFlags(cmd *cobra.Command) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = "data"
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return types.StoreConfig{
		DataDir:    dataDir,
		MaxResults: maxResults,
	}
}

func storeOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	category, _ := cmd.Flags().GetString("category")
	author, _ := cmd.Flags().GetString("author")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Category:   category,
		Author:     author,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("data-dir", "data", "base directory for the index (contains index/)")
	storeCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Ingest flags.
	storeIngestCmd.Flags().String("input", "", "paper-record CSV file to ingest")

	// Query flags.
	storeQueryCmd.Flags().String("query", "", "full-text search query")
	storeQueryCmd.Flags().String("category", "", "filter by primary subject classification")
	storeQueryCmd.Flags().String("author", "", "filter by author substring")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	storeExportCmd.Flags().String("category", "", "filter by category for partial export")
	storeExportCmd.Flags().String("author", "", "filter by author for partial export")
	storeExportCmd.Flags().Int("limit", 0, "maximum papers to export (0 = all)")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
