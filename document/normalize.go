package document

import (
	"regexp"
	"strings"
)

var (
	trailingSpaceRe = regexp.MustCompile(`\s+\n`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	spaceRunRe      = regexp.MustCompile(`[ \t]+`)
)

// CleanText normalizes whitespace in extracted text: trailing spaces
// before newlines are dropped, runs of three or more newlines collapse
// to a blank line, and runs of spaces or tabs collapse to one space.
func CleanText(s string) string {
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
