//go:build sqlite_fts5

package index

import (
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM pages_fts`).Scan(&count); err != nil {
		t.Fatalf("pages_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.ReplacePage(samplePage("fts.txt")); err != nil {
		t.Fatalf("ReplacePage: %v", err)
	}

	results, err := db.Search("Intro", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Path != "fts.txt" {
		t.Errorf("path = %q", results[0].Path)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_QueryOperatorCharacters(t *testing.T) {
	db := testDB(t)
	_ = db.ReplacePage(samplePage("fts.txt"))

	// Raw FTS5 syntax characters must not surface as query errors.
	for _, q := range []string{`Intro"`, `"unbalanced`, `a-b`, `(Intro`, `NOT`} {
		if _, err := db.Search(q, 10); err != nil {
			t.Errorf("Search(%q) error: %v", q, err)
		}
	}

	// Quoting still finds plain terms.
	results, err := db.Search("Intro test", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}

func TestFTSQuery_QuotesTerms(t *testing.T) {
	cases := map[string]string{
		"hello":         `"hello"`,
		"hello world":   `"hello" "world"`,
		`say "hi"`:      `"say" """hi"""`,
		"  spaced  out": `"spaced" "out"`,
		"":              "",
	}
	for in, want := range cases {
		if got := ftsQuery(in); got != want {
			t.Errorf("ftsQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFTS5_DeleteRemovesFromIndex(t *testing.T) {
	db := testDB(t)
	_ = db.ReplacePage(samplePage("gone.txt"))
	_ = db.DeleteFile("gone.txt")

	results, _ := db.Search("Intro", 10)
	for _, r := range results {
		if r.Path == "gone.txt" {
			t.Error("deleted page still in FTS index")
		}
	}
}
