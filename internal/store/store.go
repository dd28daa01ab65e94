// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists paper records in a SQLite index with full-text
// search over titles and keywords. The index is a local snapshot for
// repeated querying; the dataset CSV stays the source of truth.
//
// The FTS5 virtual table requires mattn/go-sqlite3 to be compiled with the
// sqlite_fts5 build tag; the mage Build and Test targets pass it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
	"github.com/pdiddy/arxiv-stats/internal/fetch"
	"github.com/pdiddy/arxiv-stats/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "papers.db"
)

// Store manages the paper index SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the paper index at dataDir/index/papers.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			authors TEXT,
			category TEXT,
			keywords TEXT,
			affiliation TEXT,
			journal_ref TEXT,
			date TEXT,
			pdf_link TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_category ON papers(category)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, keywords, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, keywords) VALUES (new.rowid, new.title, new.keywords);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, keywords) VALUES('delete', old.rowid, old.title, old.keywords);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, keywords) VALUES('delete', old.rowid, old.title, old.keywords);
				INSERT INTO papers_fts(rowid, title, keywords) VALUES (new.rowid, new.title, new.keywords);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an index ingestion run.
type IngestSummary struct {
	Indexed int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Failed
}

// Ingest upserts every record of a dataset table into the index. Records
// without a derivable paper ID are counted failed and the run continues.
func (s *Store) Ingest(ctx context.Context, t *dataset.Table, w io.Writer) (IngestSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, authors, category, keywords, affiliation, journal_ref, date, pdf_link)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, category=excluded.category,
			keywords=excluded.keywords, affiliation=excluded.affiliation,
			journal_ref=excluded.journal_ref, date=excluded.date, pdf_link=excluded.pdf_link`)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	var summary IngestSummary
	for i := 0; i < t.Len(); i++ {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		p := paperFromRow(t, i)
		if p.ID == "" {
			fmt.Fprintf(w, "failed  row %d: no paper ID\n", i+1)
			summary.Failed++
			continue
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Authors, p.Category, p.Keywords,
			p.Affiliation, p.JournalRef, p.Date, p.PDFLink,
		); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.ID, err)
			summary.Failed++
			continue
		}
		summary.Indexed++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing ingestion: %w", err)
	}

	fmt.Fprintf(w, "\nindexed: %d, failed: %d\n", summary.Indexed, summary.Failed)
	return summary, nil
}

// paperFromRow builds a Paper from one table row. The ID comes from an
// arxiv_id column when present, otherwise it is derived from pdf_link.
func paperFromRow(t *dataset.Table, i int) types.Paper {
	p := types.Paper{
		Title:       cellText(t, i, "title"),
		Authors:     cellText(t, i, "authors"),
		Category:    cellText(t, i, "category"),
		Keywords:    cellText(t, i, "keywords"),
		Affiliation: cellText(t, i, "affiliation"),
		JournalRef:  cellText(t, i, "journal_ref"),
		Date:        cellText(t, i, "date"),
		PDFLink:     cellText(t, i, "pdf_link"),
	}
	if p.Category == "" {
		p.Category = cellText(t, i, "primary_subject")
	}
	p.ID = cellText(t, i, "arxiv_id")
	if p.ID == "" {
		p.ID = fetch.CleanID(p.PDFLink)
	}
	return p
}

// cellText returns the trimmed cell text; multi-value cells keep their raw
// (delimiter-significant) form in the table, but the index stores them clean.
func cellText(t *dataset.Table, i int, field string) string {
	c, ok := t.Cell(i, field)
	if !ok || c.IsMissing() {
		return ""
	}
	return strings.TrimSpace(c.Value)
}
