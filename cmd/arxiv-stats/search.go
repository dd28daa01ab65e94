// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-stats/internal/search"
	"github.com/pdiddy/arxiv-stats/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search metadata APIs for papers",
	Long: `Search queries research-paper metadata APIs (arXiv; NASA ADS when an
API key is configured) for papers matching a free-text phrase or structured
query parameters. Results list title, authors, journal reference, year, and
source, and can be printed as a table, a per-paper listing, JSON, or
CSL-YAML, or saved to a query file for later reloading.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	load, _ := cmd.Flags().GetString("load")
	if load != "" {
		qf, err := search.ReadQueryFile(load)
		if err != nil {
			return err
		}
		out := search.SearchOutput{Results: qf.Results, BackendErrors: qf.Summary.BackendErrors}
		return emitSearchOutput(cmd, out)
	}

	query, err := queryFromFlags(cmd, args)
	if err != nil {
		return err
	}
	cfg := searchConfigFromFlags(cmd)

	client := &http.Client{Timeout: cfg.Timeout}
	var backends []search.Backend
	if cfg.EnableArxiv {
		backends = append(backends, &search.ArxivBackend{Client: client})
	}
	if cfg.EnableADS && cfg.ADSAPIKey != "" {
		backends = append(backends, &search.ADSBackend{Client: client, APIKey: cfg.ADSAPIKey})
	}

	out, err := search.Search(context.Background(), query, backends, cfg, os.Stderr)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetString("save"); save != "" {
		if err := search.WriteQueryFile(save, query, cfg, out); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Saved query file:", save)
	}

	return emitSearchOutput(cmd, out)
}

func emitSearchOutput(cmd *cobra.Command, out search.SearchOutput) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	cslOutput, _ := cmd.Flags().GetBool("csl")
	listOutput, _ := cmd.Flags().GetBool("list")

	switch {
	case jsonOutput:
		return search.FormatJSON(out, os.Stdout)
	case cslOutput:
		return search.FormatCSL(out, os.Stdout)
	case listOutput:
		search.FormatList(out, os.Stdout)
	default:
		search.FormatTable(out, os.Stdout)
	}
	return nil
}

func queryFromFlags(cmd *cobra.Command, args []string) (search.Query, error) {
	freeText, _ := cmd.Flags().GetString("query")
	if freeText == "" && len(args) > 0 {
		freeText = strings.Join(args, " ")
	}
	author, _ := cmd.Flags().GetString("author")
	category, _ := cmd.Flags().GetString("category")
	keywords, _ := cmd.Flags().GetString("keywords")

	q := search.Query{
		FreeText: freeText,
		Author:   author,
		Category: category,
	}
	if keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				q.Keywords = append(q.Keywords, kw)
			}
		}
	}

	const dateFmt = "2006-01-02"
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := time.Parse(dateFmt, from)
		if err != nil {
			return q, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		q.DateFrom = t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, err := time.Parse(dateFmt, to)
		if err != nil {
			return q, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		q.DateTo = t
	}
	return q, nil
}

func searchConfigFromFlags(cmd *cobra.Command) types.SearchConfig {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sortBy, _ := cmd.Flags().GetString("sort")

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("search.timeout"),
			UserAgent: viper.GetString("search.user_agent"),
		},
		MaxResults:        maxResults,
		SortBy:            types.SortOrder(sortBy),
		EnableArxiv:       true,
		EnableADS:         viper.GetBool("search.enable_ads"),
		ADSAPIKey:         secretDefault("ads-api-key", viper.GetString("search.ads_api_key")),
		InterBackendDelay: viper.GetDuration("search.inter_backend_delay"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "arxiv-stats/" + version
	}
	if viper.IsSet("search.enable_arxiv") {
		cfg.EnableArxiv = viper.GetBool("search.enable_arxiv")
	}
	return cfg
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search phrase")
	searchCmd.Flags().String("author", "", "filter by author name")
	searchCmd.Flags().String("category", "", "filter by arXiv category (e.g. astro-ph.GA)")
	searchCmd.Flags().String("keywords", "", "filter by keywords (comma-separated)")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Int("max-results", 20, "maximum number of results to return")
	searchCmd.Flags().String("sort", string(types.SortRelevance), "result order: relevance, submittedDate, or lastUpdatedDate")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML bibliography")
	searchCmd.Flags().Bool("list", false, "output one title/authors/journal block per result")
	searchCmd.Flags().String("save", "", "save query and results to a YAML query file")
	searchCmd.Flags().String("load", "", "reload results from a saved query file instead of querying")

	rootCmd.AddCommand(searchCmd)
}
