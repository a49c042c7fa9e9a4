package index

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/promptdeck/internal/apperr"
	"github.com/starford/promptdeck/internal/storage"
)

func syncTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store, testDB(t)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestSync_IngestsPromptFiles(t *testing.T) {
	dir, store, db := syncTestEnv(t)
	_ = os.MkdirAll(filepath.Join(dir, "app"), 0o755)
	_ = os.WriteFile(filepath.Join(dir, "app", "a.txt"),
		[]byte("SECTION 1: Intro\nPURPOSE: test\nPROMPT: \"hi\"\nEXAMPLE: hello\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("no sections here"), 0o644)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	page, err := db.GetPage("app/a.txt")
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if page.TargetFile != "app/a.js" {
		t.Errorf("target = %q, want app/a.js", page.TargetFile)
	}
	s := page.Sections[0]
	if s.Name != "Intro" || s.Purpose != "test" {
		t.Errorf("section = %+v", s)
	}
	p := s.Prompts[0]
	if p.Template != "hi" || p.Example != "hello" || p.LineNumber != 3 {
		t.Errorf("prompt = %+v", p)
	}

	// Zero-section file skipped from persistence.
	if _, err := db.GetPage("notes.txt"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("sectionless file persisted: %v", err)
	}
}

func TestSync_MasterPrompt(t *testing.T) {
	dir, store, db := syncTestEnv(t)
	content := "MASTER NLP PROMPT\nFILE: app/page.js\nINSTRUCTION SYNTAX:\nspeak plainly\nAVAILABLE SECTIONS:\nAll\nQUERY EXAMPLES:\nfix it\nMETADATA SOURCE:\nx\n"
	_ = os.WriteFile(filepath.Join(dir, "MASTER_PROMPT.txt"), []byte(content), 0o644)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	mps, err := db.ListMasterPrompts()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mps) != 1 {
		t.Fatalf("master prompts = %d, want 1", len(mps))
	}
	mp := mps[0]
	if mp.PageFilePath != "app/page.js" {
		t.Errorf("key = %q, want app/page.js", mp.PageFilePath)
	}
	if mp.NLPInstruction != "speak plainly" || mp.QueryExamples != "fix it" {
		t.Errorf("fields = %+v", mp)
	}
}

func TestSync_RemovesStale(t *testing.T) {
	dir, store, db := syncTestEnv(t)
	path := filepath.Join(dir, "gone.txt")
	_ = os.WriteFile(path, []byte("SECTION 1: A\n"), 0o644)

	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if _, err := db.GetPage("gone.txt"); err != nil {
		t.Fatalf("page not ingested: %v", err)
	}

	_ = os.Remove(path)
	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if _, err := db.GetPage("gone.txt"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("stale page survived: %v", err)
	}
}

func TestSync_MissingRootPropagates(t *testing.T) {
	store, err := storage.NewFS(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	db := testDB(t)
	if err := Sync(db, store, quietLogger()); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
