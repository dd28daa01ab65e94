// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
	"github.com/pdiddy/arxiv-stats/internal/tally"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Flatten a multi-valued CSV column to a single-column CSV file",
	Long: `Export flattens a multi-valued column of a paper-record CSV into one
value per row and writes the result to a new CSV file under a single header
("Keyword" by default), for downstream reuse.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	field, _ := cmd.Flags().GetString("field")
	out, _ := cmd.Flags().GetString("out")
	if input == "" || field == "" || out == "" {
		return fmt.Errorf("--input, --field, and --out are required")
	}

	delimiter, _ := cmd.Flags().GetString("delimiter")
	if delimiter == "" {
		delimiter = viper.GetString("stats.delimiter")
	}
	header, _ := cmd.Flags().GetString("header")
	if header == "" {
		if header = viper.GetString("stats.export_header"); header == "" {
			header = "Keyword"
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
	if err := tally.ExportColumn(values, header, out); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Exported %d values to %s\n", len(values), out)
	return nil
}

func init() {
	exportCmd.Flags().String("input", "", "paper-record CSV file to read")
	exportCmd.Flags().String("field", "", "column to flatten (e.g. keywords)")
	exportCmd.Flags().String("out", "", "destination CSV file")
	exportCmd.Flags().String("header", "", `header label for the output column (default "Keyword")`)
	exportCmd.Flags().String("delimiter", "", `delimiter inside multi-valued cells (default ", ")`)

	rootCmd.AddCommand(exportCmd)
}
