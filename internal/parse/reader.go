package parse

import (
	"regexp"
	"strings"
)

var leadingQuotePrefixRe = regexp.MustCompile(`^[" ]+\t`)

// normalizeDocument applies the document-level cleanups the format requires:
// carriage-return line endings become line feeds, and a leading all-quote or
// blank prefix collapses to a single leading tab.
func normalizeDocument(data []byte) string {
	doc := string(data)
	doc = strings.ReplaceAll(doc, "\r\n", "\n")
	doc = strings.ReplaceAll(doc, "\r", "\n")
	doc = leadingQuotePrefixRe.ReplaceAllString(doc, "\t")
	return doc
}

// isSkippable reports whether the line is blank or a comment (leading
// whitespace followed by #).
func isSkippable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// splitCells splits one line into cells on tabs, trimming surrounding
// whitespace and stripping wrapping double quotes from cell edges.
func splitCells(line string) []string {
	raw := strings.Split(line, "\t")
	cells := make([]string, len(raw))
	for i, cell := range raw {
		cell = strings.TrimSpace(cell)
		if len(cell) >= 2 && strings.HasPrefix(cell, `"`) && strings.HasSuffix(cell, `"`) {
			cell = strings.TrimSpace(cell[1 : len(cell)-1])
		}
		cells[i] = cell
	}
	return cells
}
