// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
	"github.com/pdiddy/arxiv-stats/internal/fetch"
	"github.com/pdiddy/arxiv-stats/internal/tally"
	"github.com/pdiddy/arxiv-stats/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [arxiv-id ...]",
	Short: "Download paper PDFs for arXiv IDs",
	Long: `Fetch downloads paper PDFs from arXiv, either for IDs given as
arguments or for every ID derived from a CSV column of PDF links. Papers
already on disk are skipped, so an interrupted run can be restarted.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	ids := args

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		column, _ := cmd.Flags().GetString("column")
		t, err := dataset.Load(input)
		if err != nil {
			return err
		}
		links, err := tally.Flatten(t, column, tally.DefaultDelimiter)
		if err != nil {
			return err
		}
		for _, link := range links {
			if id := fetch.CleanID(link); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("nothing to fetch: give arXiv IDs or --input with a PDF-link column")
	}

	cfg := fetchConfigFromFlags(cmd)
	client := &http.Client{Timeout: cfg.Timeout}

	result := fetch.FetchBatch(client, ids, cfg, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d download(s) failed", result.Failed)
	}
	return nil
}

func fetchConfigFromFlags(cmd *cobra.Command) types.FetchConfig {
	papersDir, _ := cmd.Flags().GetString("papers-dir")
	if papersDir == "" {
		if papersDir = viper.GetString("fetch.papers_dir"); papersDir == "" {
			papersDir = "papers"
		}
	}

	cfg := types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   viper.GetDuration("fetch.timeout"),
			UserAgent: viper.GetString("fetch.user_agent"),
		},
		DownloadDelay: viper.GetDuration("fetch.download_delay"),
		PapersDir:     papersDir,
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "arxiv-stats/" + version
	}
	if !viper.IsSet("fetch.download_delay") {
		cfg.DownloadDelay = time.Second
	}
	return cfg
}

func init() {
	fetchCmd.Flags().String("input", "", "paper-record CSV file with PDF links")
	fetchCmd.Flags().String("column", "pdf_link", "CSV column holding the PDF links")
	fetchCmd.Flags().String("papers-dir", "", "directory to download PDFs into (default papers)")

	rootCmd.AddCommand(fetchCmd)
}
