package search

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-stats/pkg/types"
)

func TestFormatCSL(t *testing.T) {
	out := SearchOutput{Results: []types.SearchResult{
		{
			Identifier: "2301.07041",
			Title:      "Galaxy Formation in the Early Universe",
			Authors:    []string{"Ada Lovelace", "Hubble"},
			JournalRef: "ApJ 950, 12 (2023)",
			Date:       time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
		},
	}}

	var buf bytes.Buffer
	if err := FormatCSL(out, &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}

	var items []CSLItem
	if err := yaml.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}

	item := items[0]
	if item.ID != "2301.07041" || item.Type != "article" {
		t.Errorf("item = %+v", item)
	}
	if item.ContainerTitle != "ApJ 950, 12 (2023)" {
		t.Errorf("ContainerTitle = %q", item.ContainerTitle)
	}
	if len(item.Author) != 2 {
		t.Fatalf("len(Author) = %d, want 2", len(item.Author))
	}
	if item.Author[0].Given != "Ada" || item.Author[0].Family != "Lovelace" {
		t.Errorf("Author[0] = %+v", item.Author[0])
	}
	if item.Author[1].Literal != "Hubble" {
		t.Errorf("Author[1] = %+v, want literal single-token name", item.Author[1])
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2023 {
		t.Errorf("Issued = %+v", item.Issued)
	}

	if !strings.Contains(buf.String(), "container-title") {
		t.Errorf("serialized CSL missing container-title:\n%s", buf.String())
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		input string
		want  CSLName
	}{
		{"Ada Lovelace", CSLName{Given: "Ada", Family: "Lovelace"}},
		{"Jean van der Berg", CSLName{Given: "Jean van der", Family: "Berg"}},
		{"Hubble", CSLName{Literal: "Hubble"}},
		{"", CSLName{}},
	}
	for _, tt := range tests {
		if got := parseAuthorName(tt.input); got != tt.want {
			t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
