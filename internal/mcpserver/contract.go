package mcpserver

// PromptFormatContract is the canonical prompt-file format served to
// LLM clients so they can author files the parser understands.
const PromptFormatContract = `# Prompt File Format

Prompt files are plain .txt documents placed next to the source files
they describe. The parser is forgiving, but these conventions are what
it actually extracts.

## Target file

Optionally declare the documented source file explicitly:

    FILE: app/components/Header.js

Without a FILE: line the target is inferred from the prompt file's own
path by swapping .txt for .js.

## Sections

A section starts with a header line:

    SECTION 1: Header Layout (Lines 10-42)

The "(Lines a-b)" range is optional. Inside a section:

    PURPOSE: what this section of the target file is for
    PROMPT: "Change the header background to dark blue"
    EXAMPLE: make the top bar dark blue

An EXAMPLE: line directly after a PROMPT: (or TEMPLATE:) line is
attached to that prompt. Quotes around templates and examples are
stripped.

## Master prompt files

A file whose name contains MASTER, or whose content contains the phrase
"MASTER NLP PROMPT", provides global guidance instead of sections. It
uses three ordered blocks:

    INSTRUCTION SYNTAX:
    ...how to phrase instructions...
    AVAILABLE SECTIONS:
    ...summary of section names...
    QUERY EXAMPLES:
    ...sample queries...
    METADATA SOURCE:
`
