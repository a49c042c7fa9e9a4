// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes prompt-dashboard tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/promptdeck/internal/index"
	"github.com/starford/promptdeck/internal/pageservice"
	"github.com/starford/promptdeck/internal/storage"
)

// Server wraps the MCP server with PromptDeck tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    *index.DB
	svc   *pageservice.Service
}

// New creates a new MCP server with all PromptDeck tools registered.
func New(store storage.Provider, db *index.DB, svc *pageservice.Service) *Server {
	s := &Server{store: store, db: db, svc: svc}

	s.mcp = server.NewMCPServer(
		"PromptDeck",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_prompts",
		mcp.WithDescription("Full-text search through indexed prompt files."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPrompts)

	s.mcp.AddTool(mcp.NewTool("read_prompt_file",
		mcp.WithDescription("Read the raw content of a prompt file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the prompt file (e.g. app/header.txt)")),
	), s.readPromptFile)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all parsed pages with their target files, sections, and prompts."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Get the parsed structure of one page by its prompt file path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Prompt file path the page was parsed from")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool("save_prompt_file",
		mcp.WithDescription("Overwrite an existing prompt file's raw text. "+
			"Content MUST follow the prompt file format (SECTION/PURPOSE/PROMPT/EXAMPLE lines). "+
			"Read the contract first via the get_prompt_contract tool or the "+
			"promptdeck://prompt-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to an existing .txt prompt file")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full replacement text following the prompt file format")),
	), s.savePromptFile)

	s.mcp.AddTool(mcp.NewTool("reseed",
		mcp.WithDescription("Rescan the codebase and re-parse every prompt file into the index."),
	), s.reseed)

	s.mcp.AddTool(mcp.NewTool("get_prompt_contract",
		mcp.WithDescription("Returns the canonical prompt file format contract. "+
			"Call this before writing prompt files to ensure correct structure."),
	), s.getPromptContract)

	// Resource: prompt file format contract.
	s.mcp.AddResource(
		mcp.NewResource("promptdeck://prompt-format", "Prompt File Format Contract",
			mcp.WithResourceDescription("Canonical prompt file format that all prompt files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPromptFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchPrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPromptFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.svc.Pages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(pages, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.svc.Page(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	out, _ := json.MarshalIndent(page, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) savePromptFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.SaveFile(ctx, path, content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", path)), nil
}

func (s *Server) reseed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.svc.Reseed(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, r := range results {
		lines = append(lines, fmt.Sprintf("%s (%s) -> %s", r.File, r.Type, r.Target))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no prompt files found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getPromptContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PromptFormatContract), nil
}

func (s *Server) readPromptFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "promptdeck://prompt-format",
			MIMEType: "text/markdown",
			Text:     PromptFormatContract,
		},
	}, nil
}
