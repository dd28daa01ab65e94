// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper PDFs for arXiv IDs taken from a dataset
// column. Downloads are resumable at the batch level: papers already on
// disk are skipped, so an interrupted run can simply be restarted.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

// arxivPDFBase is the arXiv PDF endpoint. Declared as a var so tests can
// substitute an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf"

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// CleanID derives an arXiv ID from a pdf_link cell: the last URL path
// segment with any ".pdf" suffix and version suffix removed
// (e.g. "https://arxiv.org/pdf/2301.07041v2.pdf" → "2301.07041").
func CleanID(link string) string {
	if link == "" {
		return ""
	}
	id := link
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	id = strings.TrimSuffix(id, ".pdf")
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if isDigits(id[vIdx+1:]) {
			id = id[:vIdx]
		}
	}
	return id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FetchPaper downloads one paper PDF into cfg.PapersDir. If the PDF already
// exists on disk the download is skipped; the skipped return value reports
// which happened.
func FetchPaper(client *http.Client, arxivID string, cfg types.FetchConfig, w io.Writer) (path string, skipped bool, err error) {
	if arxivID == "" {
		return "", false, fmt.Errorf("empty arXiv ID")
	}

	pdfPath := filepath.Join(cfg.PapersDir, arxivID+".pdf")
	if _, statErr := os.Stat(pdfPath); statErr == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", arxivID)
		return pdfPath, true, nil
	}

	if err := os.MkdirAll(cfg.PapersDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating papers directory: %w", err)
	}

	fmt.Fprintf(w, "downloading: %s\n", arxivID)
	if err := downloadFile(client, arxivPDFBase+"/"+arxivID, pdfPath, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", arxivID, err)
	}
	return pdfPath, false, nil
}

// FetchBatch processes multiple arXiv IDs, printing per-item status and
// returning a summary. It continues after individual failures and applies
// a delay between consecutive downloads.
func FetchBatch(client *http.Client, arxivIDs []string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, id := range arxivIDs {
		if i > 0 && cfg.DownloadDelay > 0 {
			time.Sleep(cfg.DownloadDelay)
		}
		_, wasSkipped, err := FetchPaper(client, id, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// downloadFile fetches url to destPath using a temporary file, renaming on
// success so a partial download never masquerades as a complete PDF.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
