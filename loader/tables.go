package loader

import (
	"regexp"
	"strings"
)

// minTableRows is the shortest run of column-aligned lines treated as
// a table rather than oddly spaced prose.
const minTableRows = 2

var columnSep = regexp.MustCompile(`\t| {2,}`)

// isTabularLine reports whether a line looks like a table row: long
// enough to carry data and split into multiple columns by tabs or
// runs of spaces.
func isTabularLine(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) > 10 && (strings.Count(line, "  ") > 2 || strings.Count(line, "\t") > 1)
}

// normalizeRow collapses column separators to single tabs so table
// chunks have a stable cell delimiter.
func normalizeRow(line string) string {
	cells := columnSep.Split(strings.TrimSpace(line), -1)
	out := cells[:0]
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, "\t")
}

// splitPageContent separates a page's text into prose and tables.
// Consecutive tabular lines form one table; runs shorter than
// minTableRows stay in the prose.
func splitPageContent(text string) (plain string, tables []string) {
	lines := strings.Split(text, "\n")

	var proseLines []string
	var run []string

	flush := func() {
		if len(run) >= minTableRows {
			tables = append(tables, strings.Join(run, "\n"))
		} else {
			// Too short to be a table, keep the original lines.
			for _, r := range run {
				proseLines = append(proseLines, strings.ReplaceAll(r, "\t", " "))
			}
		}
		run = run[:0]
	}

	for _, line := range lines {
		if isTabularLine(line) {
			run = append(run, normalizeRow(line))
			continue
		}
		flush()
		proseLines = append(proseLines, line)
	}
	flush()

	return strings.Join(proseLines, "\n"), tables
}
