// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

// QueryOptions holds parameters for paper index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and keywords.
	Query string

	// Category filters by primary subject classification.
	Category string

	// Author filters by substring match against the author list.
	Author string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Category == "" && q.Author == ""
}

// Retrieve queries the paper index with optional full-text search and
// structured filters. Full-text queries are ranked by FTS relevance;
// structured-only queries are sorted by date descending.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Paper, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT p.id, p.title, p.authors, p.category, p.keywords,
				p.affiliation, p.journal_ref, p.date, p.pdf_link
			FROM papers_fts
			JOIN papers p ON p.rowid = papers_fts.rowid
			WHERE papers_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT p.id, p.title, p.authors, p.category, p.keywords,
				p.affiliation, p.journal_ref, p.date, p.pdf_link
			FROM papers p
			WHERE 1=1`)
	}

	if opts.Category != "" {
		qb.WriteString(` AND p.category = ?`)
		args = append(args, opts.Category)
	}
	if opts.Author != "" {
		qb.WriteString(` AND p.authors LIKE ?`)
		args = append(args, "%"+opts.Author+"%")
	}

	if useFTS {
		qb.WriteString(` ORDER BY papers_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.date DESC, p.id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying paper index: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var p types.Paper
		if err := rows.Scan(&p.ID, &p.Title, &p.Authors, &p.Category, &p.Keywords,
			&p.Affiliation, &p.JournalRef, &p.Date, &p.PDFLink); err != nil {
			return nil, fmt.Errorf("scanning paper row: %w", err)
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating paper rows: %w", err)
	}
	return papers, nil
}

// Count returns the number of papers in the index.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}
