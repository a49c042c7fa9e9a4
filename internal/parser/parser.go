// Package parser extracts sections, prompt templates, and master-prompt
// blocks from loosely formatted prompt .txt files.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/starford/promptdeck/internal/models"
)

// defaultPurpose is the placeholder used until a PURPOSE: line overwrites it.
const defaultPurpose = "Section Purpose"

// fallbackWindow is the width of the line range assumed for headers that
// do not declare one: endLine = startLine + fallbackWindow.
const fallbackWindow = 49

var (
	// The name group excludes '(' so a trailing "(Lines ...)" suffix with
	// non-numeric bounds fails the whole match instead of leaking into the
	// name. The range group is anchored to end-of-line.
	headerRe  = regexp.MustCompile(`(?i)^\s*SECTION\s+(\d+)\s*[:.]\s*([^(]+?)\s*(?:\(Lines\s+(\d+)\s*-\s*(\d+)\)\s*)?$`)
	purposeRe = regexp.MustCompile(`(?i)^\s*PURPOSE:\s*(.*)$`)
	promptRe  = regexp.MustCompile(`(?i)^\s*(?:PROMPT|TEMPLATE):\s*(.*)$`)
	exampleRe = regexp.MustCompile(`(?i)^EXAMPLE:\s*(.*)$`)
)

// ParseSections runs a single forward pass over content and returns the
// sections in order of first appearance. A file with no section headers
// yields an empty result: it is not a prompt file, not an error.
//
// The pass keeps at most one open section. A header finalizes the previous
// section; PURPOSE: and PROMPT:/TEMPLATE: lines only apply while a section
// is open. A PROMPT: line peeks at the next line for an EXAMPLE: entry;
// when found, that line is consumed and never re-scanned.
func ParseSections(content string) []models.Section {
	lines := strings.Split(content, "\n")

	var out []models.Section
	var open *models.Section

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")

		if m := headerRe.FindStringSubmatch(line); m != nil {
			if open != nil {
				out = append(out, *open)
			}
			s := models.Section{
				Name:    strings.TrimSpace(m[2]),
				Purpose: defaultPurpose,
				Prompts: []models.Prompt{},
			}
			if m[3] != "" {
				s.StartLine, _ = strconv.Atoi(m[3])
				s.EndLine, _ = strconv.Atoi(m[4])
			} else {
				s.StartLine = i + 1
				s.EndLine = i + 1 + fallbackWindow
			}
			open = &s
			continue
		}

		if open == nil {
			// Prompt or purpose lines before the first header are ignored.
			continue
		}

		if m := purposeRe.FindStringSubmatch(line); m != nil {
			open.Purpose = strings.TrimSpace(m[1])
			continue
		}

		if m := promptRe.FindStringSubmatch(line); m != nil {
			p := models.Prompt{
				Template:   stripQuotes(strings.TrimSpace(m[1])),
				LineNumber: i + 1,
			}
			if i+1 < len(lines) {
				next := strings.TrimSpace(strings.TrimSuffix(lines[i+1], "\r"))
				if em := exampleRe.FindStringSubmatch(next); em != nil {
					p.Example = stripQuotes(strings.TrimSpace(em[1]))
					i++
				}
			}
			open.Prompts = append(open.Prompts, p)
		}
	}

	if open != nil {
		out = append(out, *open)
	}
	return out
}

// stripQuotes removes at most one leading and one trailing double quote.
// The two ends are handled independently; an unpaired quote at either
// extreme is still stripped.
func stripQuotes(s string) string {
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	return s
}
