// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

// adsAPIBase is the NASA ADS search endpoint. Declared as a var so tests
// can substitute an httptest server.
var adsAPIBase = "https://api.adsabs.harvard.edu/v1/search/query"

const adsFields = "bibcode,title,author,abstract,pub,pubdate"

// ADSBackend queries the NASA ADS API. The API requires a bearer token;
// the key is injected at construction, never read from process state.
type ADSBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *ADSBackend) Name() string { return "ads" }

// Search queries the NASA ADS API and returns results.
func (b *ADSBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if b.APIKey == "" {
		return nil, fmt.Errorf("NASA ADS requires an API key (.secrets/ads-api-key)")
	}

	q := buildADSQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty ADS query")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{
		"q":    {q},
		"rows": {fmt.Sprintf("%d", maxResults)},
		"fl":   {adsFields},
	}
	if cfg.SortBy == types.SortSubmittedDate || cfg.SortBy == types.SortLastUpdated {
		params.Set("sort", "date desc")
	}

	reqURL := adsAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ADS API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ADS API returned HTTP %d", resp.StatusCode)
	}

	var body adsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing ADS response: %w", err)
	}

	total := len(body.Response.Docs)
	var results []types.SearchResult
	for i, doc := range body.Response.Docs {
		if doc.Bibcode == "" {
			continue
		}

		r := types.SearchResult{
			Identifier: doc.Bibcode,
			Abstract:   doc.Abstract,
			JournalRef: doc.Pub,
			Authors:    doc.Author,
			Source:     "ads",
		}
		if len(doc.Title) > 0 {
			r.Title = strings.TrimSpace(doc.Title[0])
		}
		r.Date = parseADSDate(doc.PubDate)

		if total > 1 {
			r.RelevanceScore = 1.0 - float64(i)/float64(total-1)*0.9
		} else {
			r.RelevanceScore = 1.0
		}

		results = append(results, r)
	}
	return results, nil
}

// buildADSQuery constructs the q parameter from structured fields.
func buildADSQuery(q Query) string {
	var parts []string

	if q.FreeText != "" {
		parts = append(parts, q.FreeText)
	}
	if q.Author != "" {
		parts = append(parts, fmt.Sprintf("author:%q", q.Author))
	}
	if q.Category != "" {
		// ADS indexes arXiv subject classes under arxiv_class.
		parts = append(parts, "arxiv_class:"+q.Category)
	}
	for _, kw := range q.Keywords {
		parts = append(parts, kw)
	}
	if !q.DateFrom.IsZero() || !q.DateTo.IsZero() {
		from, to := "1900", "*"
		if !q.DateFrom.IsZero() {
			from = q.DateFrom.Format("2006-01")
		}
		if !q.DateTo.IsZero() {
			to = q.DateTo.Format("2006-01")
		}
		parts = append(parts, fmt.Sprintf("pubdate:[%s TO %s]", from, to))
	}

	return strings.Join(parts, " ")
}

// parseADSDate parses the ADS pubdate format "2025-01-00", where a zero day
// means "unknown day of month".
func parseADSDate(s string) time.Time {
	if len(s) >= 7 {
		if t, err := time.Parse("2006-01", s[:7]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ADS JSON response structures.
type adsResponse struct {
	Response struct {
		Docs []adsDoc `json:"docs"`
	} `json:"response"`
}

type adsDoc struct {
	Bibcode  string   `json:"bibcode"`
	Title    []string `json:"title"`
	Author   []string `json:"author"`
	Abstract string   `json:"abstract"`
	Pub      string   `json:"pub"`
	PubDate  string   `json:"pubdate"`
}
