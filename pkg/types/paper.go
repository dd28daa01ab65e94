// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-stats tool:
// search results returned by metadata API backends, paper records held in
// the local index, and per-stage configuration.
package types

import "time"

// NoJournalRef is the explicit marker rendered when a paper has no journal
// reference. Backends leave JournalRef empty; display layers substitute this.
const NoJournalRef = "No journal ref found"

// SearchResult represents a candidate paper returned by a metadata API query.
type SearchResult struct {
	// Identifier is the canonical ID from the source (arXiv ID or ADS bibcode).
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the paper title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// JournalRef is the journal reference, empty when the paper has none.
	JournalRef string `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`

	// Category is the primary subject classification (e.g. "astro-ph.GA").
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Date is the publication or preprint date.
	Date time.Time `json:"date" yaml:"date"`

	// Source identifies which backend found this result (e.g. "arxiv", "ads").
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is a value between 0.0 and 1.0 indicating rank position.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`
}

// JournalRefOrNone returns the journal reference, or the explicit no-value
// marker when the source reported none.
func (r SearchResult) JournalRefOrNone() string {
	if r.JournalRef == "" {
		return NoJournalRef
	}
	return r.JournalRef
}

// Paper is one record of the local SQLite paper index. Multi-valued fields
// (authors, keywords, affiliations) keep their source encoding: items joined
// by ", ".
type Paper struct {
	// ID is the arXiv ID derived from the record's pdf_link (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors is the ", "-joined author list.
	Authors string `json:"authors" yaml:"authors"`

	// Category is the primary subject classification.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Keywords is the ", "-joined keyword list.
	Keywords string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Affiliation is the ", "-joined affiliation list.
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`

	// JournalRef is the journal reference, empty when the paper has none.
	JournalRef string `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`

	// Date is the submission date string as it appears in the dataset.
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// PDFLink is the source URL of the paper PDF.
	PDFLink string `json:"pdf_link,omitempty" yaml:"pdf_link,omitempty"`
}
