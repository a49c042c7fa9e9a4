package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/promptdeck/internal/index"
	"github.com/starford/promptdeck/internal/pageservice"
	"github.com/starford/promptdeck/internal/storage"
)

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()

	codebaseDir := t.TempDir()
	store, err := storage.NewFS(codebaseDir)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "promptdeck-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	svc := pageservice.NewService(store, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := New(store, db, svc)
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_prompts":
		result, err = srv.searchPrompts(ctx, req)
	case "read_prompt_file":
		result, err = srv.readPromptFile(ctx, req)
	case "list_pages":
		result, err = srv.listPages(ctx, req)
	case "get_page":
		result, err = srv.getPage(ctx, req)
	case "save_prompt_file":
		result, err = srv.savePromptFile(ctx, req)
	case "reseed":
		result, err = srv.reseed(ctx, req)
	case "get_prompt_contract":
		result, err = srv.getPromptContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

const samplePromptFile = "SECTION 1: Intro\nPURPOSE: test\nPROMPT: \"hi\"\nEXAMPLE: hello\n"

func TestReseedAndListPages(t *testing.T) {
	srv, store := testServer(t)
	if err := store.Write("app/a.txt", []byte(samplePromptFile)); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "reseed", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "app/a.txt") || !strings.Contains(text, "app/a.js") {
		t.Errorf("reseed result = %q", text)
	}

	r = callTool(t, srv, "list_pages", map[string]interface{}{})
	text = resultText(r)
	if !strings.Contains(text, `"app/a.txt"`) || !strings.Contains(text, `"Intro"`) {
		t.Errorf("list_pages result = %q", text)
	}
}

func TestReseedEmpty(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "reseed", map[string]interface{}{})
	if resultText(r) != "no prompt files found" {
		t.Errorf("reseed result = %q", resultText(r))
	}
}

func TestReadPromptFile(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.txt", []byte(samplePromptFile))

	r := callTool(t, srv, "read_prompt_file", map[string]interface{}{"path": "a.txt"})
	if resultText(r) != samplePromptFile {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestReadPromptFileMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_prompt_file", map[string]interface{}{"path": "nope.txt"})
	if !r.IsError {
		t.Error("expected error for missing file")
	}
}

func TestSavePromptFile(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.txt", []byte(samplePromptFile))

	r := callTool(t, srv, "save_prompt_file", map[string]interface{}{
		"path":    "a.txt",
		"content": "SECTION 1: Updated\nPURPOSE: changed\n",
	})
	if resultText(r) != "saved: a.txt" {
		t.Errorf("save result = %q", resultText(r))
	}

	data, err := store.Read("a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Updated") {
		t.Errorf("content after save = %q", data)
	}
}

func TestSavePromptFileMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "save_prompt_file", map[string]interface{}{
		"path":    "nope.txt",
		"content": "x",
	})
	if !r.IsError {
		t.Error("expected error for missing file")
	}
}

func TestGetPage(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("app/a.txt", []byte(samplePromptFile))
	_ = resultText(callTool(t, srv, "reseed", map[string]interface{}{}))

	r := callTool(t, srv, "get_page", map[string]interface{}{"path": "app/a.txt"})
	text := resultText(r)
	if !strings.Contains(text, `"app/a.js"`) {
		t.Errorf("get_page result = %q", text)
	}

	r = callTool(t, srv, "get_page", map[string]interface{}{"path": "missing.txt"})
	if !r.IsError {
		t.Error("expected error for missing page")
	}
}

func TestGetPromptContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_prompt_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "SECTION 1:") {
		t.Error("contract missing section header example")
	}
}
