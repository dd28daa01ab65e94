// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
	"github.com/pdiddy/arxiv-stats/internal/tally"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Tally a multi-valued CSV column and report the top values",
	Long: `Stats loads a paper-record CSV, flattens a multi-valued column
(authors, category, keywords, affiliation) into individual values, counts
occurrences, and reports the most frequent value or the top-k ranking.
Missing and malformed cells contribute zero values.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	field, _ := cmd.Flags().GetString("field")
	if input == "" || field == "" {
		return fmt.Errorf("both --input and --field are required")
	}

	delimiter, _ := cmd.Flags().GetString("delimiter")
	if delimiter == "" {
		delimiter = viper.GetString("stats.delimiter")
	}

	k, _ := cmd.Flags().GetInt("top")
	if k == 0 {
		if k = viper.GetInt("stats.top_k"); k == 0 {
			k = 1
		}
	}

	t, err := dataset.Load(input)
	if err != nil {
		return err
	}

	values, err := tally.Flatten(t, field, delimiter)
	if err != nil {
		return err
	}
	result := tally.Tally(values)
	entries, err := tally.Top(result, k)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	fmt.Printf("%s: %d values, %d distinct (from %d records)\n\n",
		field, result.Total(), result.Distinct(), t.Len())
	for i, e := range entries {
		fmt.Printf("%-4d  %-50s  %d\n", i+1, e.Value, e.Count)
	}
	return nil
}

func init() {
	statsCmd.Flags().String("input", "", "paper-record CSV file to analyze")
	statsCmd.Flags().String("field", "", "column to tally (e.g. authors, category, keywords, affiliation)")
	statsCmd.Flags().Int("top", 0, "number of ranked entries to report (default 1)")
	statsCmd.Flags().String("delimiter", "", `delimiter inside multi-valued cells (default ", ")`)
	statsCmd.Flags().Bool("json", false, "output the ranking as JSON")

	rootCmd.AddCommand(statsCmd)
}
