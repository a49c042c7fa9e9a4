package parser

import (
	"path"
	"regexp"
	"strings"
)

// masterContentMarker promotes a file to master-prompt handling even when
// its name does not contain "MASTER".
const masterContentMarker = "MASTER NLP PROMPT"

// Fallbacks used when a block's markers are absent or out of order.
const (
	defaultNLPInstruction  = "Describe the change you want in plain language and name the section it applies to."
	defaultSectionsSummary = "See details"
)

// Each block spans from one literal marker to the next, non-greedy,
// across newlines. Marker order is not validated: out-of-order markers
// simply fail to match and yield the fallback.
var (
	nlpInstructionRe  = regexp.MustCompile(`(?s)INSTRUCTION SYNTAX:(.*?)AVAILABLE SECTIONS:`)
	sectionsSummaryRe = regexp.MustCompile(`(?s)AVAILABLE SECTIONS:(.*?)QUERY EXAMPLES:`)
	queryExamplesRe   = regexp.MustCompile(`(?s)QUERY EXAMPLES:(.*?)METADATA SOURCE:`)
)

// MasterFields holds the three free-text blocks of a master prompt file.
type MasterFields struct {
	NLPInstruction  string
	SectionsSummary string
	QueryExamples   string
}

// IsMasterPrompt reports whether a file should be handled by the
// master-prompt parser: its name contains "MASTER" or its content
// contains the literal master marker phrase.
func IsMasterPrompt(filePath, content string) bool {
	return strings.Contains(path.Base(filePath), "MASTER") ||
		strings.Contains(content, masterContentMarker)
}

// ParseMasterPrompt extracts the three delimiter-bounded blocks. Missing
// markers produce the documented fallbacks rather than errors. All double
// quotes are removed from the instruction block.
func ParseMasterPrompt(content string) MasterFields {
	f := MasterFields{
		NLPInstruction:  defaultNLPInstruction,
		SectionsSummary: defaultSectionsSummary,
	}
	if m := nlpInstructionRe.FindStringSubmatch(content); m != nil {
		f.NLPInstruction = strings.TrimSpace(strings.ReplaceAll(m[1], `"`, ""))
	}
	if m := sectionsSummaryRe.FindStringSubmatch(content); m != nil {
		f.SectionsSummary = strings.TrimSpace(m[1])
	}
	if m := queryExamplesRe.FindStringSubmatch(content); m != nil {
		f.QueryExamples = strings.TrimSpace(m[1])
	}
	return f
}
