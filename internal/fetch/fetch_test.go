package fetch

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

func testFetchCfg(dir string) types.FetchConfig {
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		DownloadDelay: 0,
		PapersDir:     dir,
	}
}

func TestCleanID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://arxiv.org/pdf/2301.07041v2.pdf", "2301.07041"},
		{"https://arxiv.org/pdf/2301.07041.pdf", "2301.07041"},
		{"http://arxiv.org/pdf/1706.03762v5", "1706.03762"},
		{"2301.07041", "2301.07041"},
		{"2301.07041v1", "2301.07041"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanID(tt.input); got != tt.want {
				t.Errorf("CleanID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFetchPaperDownloads(t *testing.T) {
	const pdfBody = "%PDF-1.4 fake"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte(pdfBody))
	}))
	defer ts.Close()

	old := arxivPDFBase
	arxivPDFBase = ts.URL
	defer func() { arxivPDFBase = old }()

	dir := t.TempDir()
	var buf bytes.Buffer
	path, skipped, err := FetchPaper(ts.Client(), "2301.07041", testFetchCfg(dir), &buf)
	if err != nil {
		t.Fatalf("FetchPaper: %v", err)
	}
	if skipped {
		t.Error("skipped = true on first download")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != pdfBody {
		t.Errorf("downloaded body = %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("stray temp file %s", e.Name())
		}
	}
}

func TestFetchPaperSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2301.07041.pdf"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	_, skipped, err := FetchPaper(http.DefaultClient, "2301.07041", testFetchCfg(dir), &buf)
	if err != nil {
		t.Fatalf("FetchPaper: %v", err)
	}
	if !skipped {
		t.Error("skipped = false, want true for existing PDF")
	}
	if !strings.Contains(buf.String(), "skipped") {
		t.Errorf("output = %q, want skipped notice", buf.String())
	}
}

func TestFetchPaperEmptyID(t *testing.T) {
	var buf bytes.Buffer
	if _, _, err := FetchPaper(http.DefaultClient, "", testFetchCfg(t.TempDir()), &buf); err == nil {
		t.Error("want error for empty ID, got nil")
	}
}

func TestFetchBatchContinuesAfterFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("%PDF-1.4"))
	}))
	defer ts.Close()

	old := arxivPDFBase
	arxivPDFBase = ts.URL
	defer func() { arxivPDFBase = old }()

	var buf bytes.Buffer
	result := FetchBatch(ts.Client(), []string{"2301.07041", "bad.00000", "2301.07042"}, testFetchCfg(t.TempDir()), &buf)

	if result.Downloaded != 2 {
		t.Errorf("Downloaded = %d, want 2", result.Downloaded)
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if !result.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if result.Total() != 3 {
		t.Errorf("Total() = %d, want 3", result.Total())
	}
	if !strings.Contains(buf.String(), "Batch summary") {
		t.Errorf("output missing batch summary:\n%s", buf.String())
	}
}
