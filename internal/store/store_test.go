package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-stats/internal/dataset"
	"github.com/pdiddy/arxiv-stats/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := types.StoreConfig{
		DataDir:    tmpDir,
		MaxResults: 20,
	}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return store, tmpDir
}

var testFields = []string{"pdf_link", "title", "authors", "category", "keywords", "affiliation", "journal_ref", "date"}

func testTable(rows ...[]string) *dataset.Table {
	return dataset.New(testFields, rows)
}

func sampleTable() *dataset.Table {
	return testTable(
		[]string{
			"https://arxiv.org/pdf/2301.07041v1.pdf",
			"Galaxy Formation in the Early Universe",
			"Lovelace, Hubble",
			"astro-ph.GA",
			"galaxies, high redshift",
			"Cambridge, Caltech",
			"ApJ 950, 12 (2023)",
			"2023-01-17",
		},
		[]string{
			"https://arxiv.org/pdf/2301.99999v2.pdf",
			"A Preprint About Quasars",
			"Rubin",
			"astro-ph.CO",
			"quasars",
			"",
			"",
			"2023-01-30",
		},
	)
}

func ingest(t *testing.T, s *Store, tbl *dataset.Table) IngestSummary {
	t.Helper()
	var buf bytes.Buffer
	summary, err := s.Ingest(context.Background(), tbl, &buf)
	if err != nil {
		t.Fatalf("Ingest: %v\n%s", err, buf.String())
	}
	return summary
}

// --- Ingest ---

func TestIngest(t *testing.T) {
	s, _ := testSetup(t)

	summary := ingest(t, s, sampleTable())
	if summary.Indexed != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 2 indexed", summary)
	}

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count() = %d, want 2", n)
	}
}

func TestIngestUpsertsOnReingest(t *testing.T) {
	s, _ := testSetup(t)
	ingest(t, s, sampleTable())
	ingest(t, s, sampleTable())

	n, err := s.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Count() after re-ingest = %d, want 2", n)
	}
}

func TestIngestRowWithoutIDFails(t *testing.T) {
	s, _ := testSetup(t)
	tbl := testTable([]string{"", "No Link Paper", "Nobody", "", "", "", "", ""})

	var buf bytes.Buffer
	summary, err := s.Ingest(context.Background(), tbl, &buf)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Failed != 1 || summary.Indexed != 0 {
		t.Errorf("summary = %+v, want 1 failed", summary)
	}
	if !strings.Contains(buf.String(), "no paper ID") {
		t.Errorf("output = %q", buf.String())
	}
}

// --- Retrieve ---

func TestRetrieveFullText(t *testing.T) {
	s, _ := testSetup(t)
	ingest(t, s, sampleTable())

	papers, err := s.Retrieve(context.Background(), QueryOptions{Query: "quasars"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("len(papers) = %d, want 1", len(papers))
	}
	if papers[0].ID != "2301.99999" {
		t.Errorf("ID = %q", papers[0].ID)
	}
	if papers[0].JournalRef != "" {
		t.Errorf("JournalRef = %q, want empty", papers[0].JournalRef)
	}
}

func TestRetrieveKeywordMatch(t *testing.T) {
	s, _ := testSetup(t)
	ingest(t, s, sampleTable())

	papers, err := s.Retrieve(context.Background(), QueryOptions{Query: "redshift"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != "2301.07041" {
		t.Errorf("papers = %+v, want the high-redshift paper", papers)
	}
}

func TestRetrieveByCategory(t *testing.T) {
	s, _ := testSetup(t)
	ingest(t, s, sampleTable())

	papers, err := s.Retrieve(context.Background(), QueryOptions{Category: "astro-ph.GA"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(papers) != 1 || papers[0].Category != "astro-ph.GA" {
		t.Errorf("papers = %+v", papers)
	}
}

func TestRetrieveByAuthor(t *testing.T) {
	s, _ := testSetup(t)
	ingest(t, s, sampleTable())

	papers, err := s.Retrieve(context.Background(), QueryOptions{Author: "Rubin"})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(papers) != 1 || papers[0].ID != "2301.99999" {
		t.Errorf("papers = %+v", papers)
	}
}

func TestRetrieveLimit(t *testing.T) {
	s, _ := testSetup(t)
	ingest(t, s, sampleTable())

	papers, err := s.Retrieve(context.Background(), QueryOptions{Category: "astro-ph.GA", MaxResults: 1})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(papers) > 1 {
		t.Errorf("len(papers) = %d, want at most 1", len(papers))
	}
}

// --- Export ---

func TestExportYAML(t *testing.T) {
	s, tmpDir := testSetup(t)
	ingest(t, s, sampleTable())

	if err := s.ExportYAML(context.Background(), QueryOptions{}); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "index", "export.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var papers []types.Paper
	if err := yaml.Unmarshal(data, &papers); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("len(papers) = %d, want 2", len(papers))
	}
}

func TestExportJSONFiltered(t *testing.T) {
	s, tmpDir := testSetup(t)
	ingest(t, s, sampleTable())

	if err := s.ExportJSON(context.Background(), QueryOptions{Category: "astro-ph.CO"}); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "index", "export.json"))
	if err != nil {
		t.Fatal(err)
	}
	var papers []types.Paper
	if err := json.Unmarshal(data, &papers); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(papers) != 1 || papers[0].Category != "astro-ph.CO" {
		t.Errorf("papers = %+v", papers)
	}
}
