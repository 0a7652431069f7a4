package textkit

import (
	"regexp"
	"strings"
)

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
	blankLines  = regexp.MustCompile(`(?m)^[ \t]+$`)
)

// NormalizeWhitespace collapses runs of spaces and tabs into single spaces,
// strips whitespace-only lines and reduces runs of blank lines to a single
// paragraph break. Paragraph boundaries ("\n\n") survive so the chunker can
// still find them.
func NormalizeWhitespace(text string) string {
	text = blankLines.ReplaceAllString(text, "")
	text = spaceRuns.ReplaceAllString(text, " ")
	text = newlineRuns.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
