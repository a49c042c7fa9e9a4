// Package models defines the domain types for Promptdeck.
package models

import "time"

// Prompt is a single PROMPT:/TEMPLATE: entry inside a section.
type Prompt struct {
	Template   string `json:"template"`
	Example    string `json:"example"`
	LineNumber int    `json:"line_number"`
}

// Section is a named, line-ranged subdivision of a prompt file.
type Section struct {
	Name      string   `json:"name"`
	StartLine int      `json:"start_line"`
	EndLine   int      `json:"end_line"`
	Purpose   string   `json:"purpose"`
	Prompts   []Prompt `json:"prompts"`
}

// Page groups one prompt file's metadata with its parsed sections.
// FilePath is the prompt file path relative to the codebase root;
// TargetFile is the source file the prompt file documents.
type Page struct {
	FilePath   string    `json:"file_path"`
	TargetFile string    `json:"target_file"`
	Checksum   string    `json:"checksum"`
	Sections   []Section `json:"sections"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MasterPrompt holds the global NLP guidance extracted from a master
// prompt file. PageFilePath is the resolved target file path and acts
// as the unique key; FilePath is the prompt file it was extracted from.
type MasterPrompt struct {
	PageFilePath    string    `json:"page_file_path"`
	FilePath        string    `json:"file_path"`
	Checksum        string    `json:"-"`
	NLPInstruction  string    `json:"nlp_instruction"`
	SectionsSummary string    `json:"sections_summary"`
	QueryExamples   string    `json:"query_examples"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// FileMetadata is a lightweight listing entry for a candidate prompt file.
type FileMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
