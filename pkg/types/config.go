// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-stats/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SortOrder selects how a metadata API orders its results.
type SortOrder string

const (
	SortRelevance     SortOrder = "relevance"
	SortSubmittedDate SortOrder = "submittedDate"
	SortLastUpdated   SortOrder = "lastUpdatedDate"
)

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// SortBy selects the result ordering requested from the backend
	// (default relevance; submittedDate gives newest-first submissions).
	SortBy SortOrder `json:"sort_by" yaml:"sort_by"`

	// EnableArxiv controls whether the arXiv backend is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableADS controls whether the NASA ADS backend is used.
	EnableADS bool `json:"enable_ads" yaml:"enable_ads"`

	// ADSAPIKey is the NASA ADS bearer token. Loaded from .secrets/ads-api-key
	// and passed into the backend constructor; never set process-wide.
	ADSAPIKey string `json:"ads_api_key,omitempty" yaml:"ads_api_key,omitempty"`

	// InterBackendDelay is the delay between API calls to different backends (default 1s).
	InterBackendDelay time.Duration `json:"inter_backend_delay" yaml:"inter_backend_delay"`
}

// StatsConfig holds settings for the tally/stats stage.
type StatsConfig struct {
	// Delimiter separates items inside a multi-valued CSV cell (default ", ").
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// TopK is the default number of ranked entries to report (default 1).
	TopK int `json:"top_k" yaml:"top_k"`

	// ExportHeader is the header row written by column exports (default "Keyword").
	ExportHeader string `json:"export_header" yaml:"export_header"`
}

// FetchConfig holds settings for the PDF fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// DownloadDelay is the delay between consecutive downloads (default 1s).
	DownloadDelay time.Duration `json:"download_delay" yaml:"download_delay"`

	// PapersDir is the directory PDFs are downloaded into.
	PapersDir string `json:"papers_dir" yaml:"papers_dir"`
}

// StoreConfig holds settings for the SQLite paper index.
type StoreConfig struct {
	// DataDir is the base directory for the index (contains index/papers.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ToolConfig groups all stage configurations.
type ToolConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Stats  StatsConfig  `json:"stats" yaml:"stats"`
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`
	Store  StoreConfig  `json:"store" yaml:"store"`
}
