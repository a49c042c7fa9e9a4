package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

// fileMarkerRe matches an explicit in-file annotation naming the source
// file a prompt file documents. The token stops at whitespace or a pipe.
var fileMarkerRe = regexp.MustCompile(`(?m)^\s*FILE:\s*([^\s|]+)`)

// ResolveTargetFile determines which real source file a prompt file
// documents. An explicit FILE: annotation wins; otherwise the prompt
// file's own path (relative to the codebase root) is mapped by swapping
// a trailing .txt extension for .js. Separators are normalized to
// forward slashes either way. Pure function, no I/O.
func ResolveTargetFile(content, relPath string) string {
	if m := fileMarkerRe.FindStringSubmatch(content); m != nil {
		return strings.ReplaceAll(m[1], `\`, "/")
	}
	p := filepath.ToSlash(relPath)
	if strings.HasSuffix(p, ".txt") {
		p = strings.TrimSuffix(p, ".txt") + ".js"
	}
	return p
}
