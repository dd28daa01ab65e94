// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries research-paper metadata APIs and formats the results.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

// Backend searches a single metadata API. Each backend (arXiv, NASA ADS)
// implements this interface per the Strategy pattern.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// Query holds the search parameters.
type Query struct {
	FreeText string
	Author   string
	Category string
	Keywords []string
	DateFrom time.Time
	DateTo   time.Time
}

// IsEmpty reports whether the query contains no searchable terms.
func (q Query) IsEmpty() bool {
	return q.FreeText == "" && q.Author == "" && q.Category == "" && len(q.Keywords) == 0
}

// SearchOutput holds the collected results and per-backend failures.
type SearchOutput struct {
	Results       []types.SearchResult
	BackendErrors []string
}

// Search fans the query out to all backends concurrently, collects the
// results, orders them by relevance score, and returns the top N. A failed
// backend produces a warning on w and an entry in BackendErrors; the other
// backends' results are still returned.
func Search(ctx context.Context, query Query, backends []Backend, cfg types.SearchConfig, w io.Writer) (SearchOutput, error) {
	if query.IsEmpty() {
		return SearchOutput{}, fmt.Errorf("query is empty: provide a search phrase or structured parameters")
	}
	if len(backends) == 0 {
		return SearchOutput{}, fmt.Errorf("no search backends configured")
	}

	type backendResult struct {
		results []types.SearchResult
		err     error
		name    string
	}

	ch := make(chan backendResult, len(backends))
	var wg sync.WaitGroup

	for i, b := range backends {
		if i > 0 && cfg.InterBackendDelay > 0 {
			time.Sleep(cfg.InterBackendDelay)
		}
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			results, err := b.Search(ctx, query, cfg)
			ch <- backendResult{results: results, err: err, name: b.Name()}
		}(b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var all []types.SearchResult
	var backendErrors []string
	for br := range ch {
		if br.err != nil {
			msg := fmt.Sprintf("%s: %v", br.name, br.err)
			backendErrors = append(backendErrors, msg)
			fmt.Fprintf(w, "warning: backend %s failed: %v\n", br.name, br.err)
			continue
		}
		all = append(all, br.results...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RelevanceScore > all[j].RelevanceScore
	})

	if cfg.MaxResults > 0 && len(all) > cfg.MaxResults {
		all = all[:cfg.MaxResults]
	}

	return SearchOutput{Results: all, BackendErrors: backendErrors}, nil
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-52s  %-20s  %-4s  %-24s  %s\n",
		"Rank", "Title", "Authors", "Year", "Journal", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 118))

	for i, r := range out.Results {
		title := truncate(r.Title, 52)
		authors := formatAuthors(r.Authors)
		year := ""
		if !r.Date.IsZero() {
			year = fmt.Sprintf("%d", r.Date.Year())
		}
		journal := truncate(r.JournalRefOrNone(), 24)
		fmt.Fprintf(w, "%-4d  %-52s  %-20s  %-4s  %-24s  %s\n",
			i+1, title, authors, year, journal, r.Source)
	}

	fmt.Fprintf(w, "\n%d results\n", len(out.Results))
}

// FormatList writes one block per result to w: title, authors, and journal
// reference, in source order.
func FormatList(out SearchOutput, w io.Writer) {
	for _, r := range out.Results {
		fmt.Fprintf(w, "Title: %s\n", r.Title)
		fmt.Fprintf(w, "Authors: %s\n", strings.Join(r.Authors, ", "))
		fmt.Fprintf(w, "Journal ref: %s\n\n", r.JournalRefOrNone())
	}
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
