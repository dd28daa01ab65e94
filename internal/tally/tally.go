// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tally flattens multi-valued table columns into individual values
// and computes frequency statistics over them. It is the core of the stats
// and export commands: the same pass answers "most frequent author",
// "most frequent category", "most frequent keyword", and so on.
package tally

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
)

// DefaultDelimiter separates items inside a multi-valued cell.
const DefaultDelimiter = ", "

// ErrMissingField reports that a requested field is not part of the table schema.
var ErrMissingField = errors.New("field not in table schema")

// ErrInvalidTopK reports a non-positive k in a top-k request.
var ErrInvalidTopK = errors.New("top-k count must be positive")

// Flatten extracts every individual value of a multi-valued column, in row
// order then within-row order. Missing cells contribute zero values.
// Residual list-literal decoration (surrounding brackets, per-item quotes
// left over from a stringified-list serialization) is stripped before
// splitting. Elements are whitespace-trimmed; empty elements are kept, so
// callers can see trailing-delimiter artifacts. An empty delimiter falls
// back to DefaultDelimiter.
func Flatten(t *dataset.Table, field, delimiter string) ([]string, error) {
	if !t.HasField(field) {
		return nil, fmt.Errorf("%w: %q", ErrMissingField, field)
	}
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}

	cells, _ := t.Column(field)
	var values []string
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		for _, item := range strings.Split(stripDecoration(c.Value), delimiter) {
			values = append(values, trimItem(item))
		}
	}
	return values, nil
}

// stripDecoration removes one layer of surrounding brackets. Cells without
// brackets pass through untouched: trimming whole-cell whitespace here would
// collapse a trailing ", " into "," and lose the empty element it encodes.
func stripDecoration(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return trimmed[1 : len(trimmed)-1]
	}
	return s
}

// trimItem trims whitespace and one layer of matching quotes from an item.
func trimItem(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			s = strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}

// Result holds occurrence counts per distinct value, plus the first-seen
// order of values so that rankings break count ties deterministically.
type Result struct {
	counts map[string]int
	order  []string
}

// Entry is one ranked (value, count) pair.
type Entry struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Tally counts occurrences of each distinct non-empty value. Empty strings
// represent "no value" rather than a real category and are excluded. The
// input is not mutated; counts are independent of input order.
func Tally(values []string) Result {
	r := Result{counts: make(map[string]int)}
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, seen := r.counts[v]; !seen {
			r.order = append(r.order, v)
		}
		r.counts[v]++
	}
	return r
}

// Count returns the occurrence count for a value (zero if never seen).
func (r Result) Count(value string) int { return r.counts[value] }

// Distinct returns the number of distinct values counted.
func (r Result) Distinct() int { return len(r.order) }

// Total returns the sum of all counts, i.e. the number of non-empty values
// in the tallied sequence.
func (r Result) Total() int {
	total := 0
	for _, n := range r.counts {
		total += n
	}
	return total
}

// Top returns the k highest-count entries, count descending. Ties keep the
// first-seen order of the tallied sequence. A k larger than the number of
// distinct values is clamped; k <= 0 is an error.
func Top(r Result, k int) ([]Entry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
	}

	entries := make([]Entry, len(r.order))
	for i, v := range r.order {
		entries[i] = Entry{Value: v, Count: r.counts[v]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if k > len(entries) {
		k = len(entries)
	}
	return entries[:k], nil
}

// ExportColumn writes a flattened value sequence to a CSV file: one header
// row followed by one value per row. The file is encoded in memory and
// written in one shot.
func ExportColumn(values []string, header, path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{header}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, v := range values {
		if err := w.Write([]string{v}); err != nil {
			return fmt.Errorf("writing value row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing export file %s: %w", path, err)
	}
	return nil
}
