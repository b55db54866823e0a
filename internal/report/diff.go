package report

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/folio-a11y/internal/audit"
)

// Diff compares the plain text reports of two runs line by line. Added lines
// are prefixed with "+ ", removed lines with "- ". It returns "" when either
// result is nil or nothing changed.
func Diff(prev, cur *audit.Result) string {
	if prev == nil || cur == nil {
		return ""
	}
	opts := TextOptions{NoColor: true, HideSuggestions: true}
	return diffLines(Text(prev, opts), Text(cur, opts))
}

func diffLines(a, b string) string {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(strings.TrimRight(line, "\n"))
			out.WriteString("\n")
		}
	}
	return out.String()
}
