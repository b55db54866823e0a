package audit

import (
	"fmt"
	"strconv"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

// HeadingCheck verifies the heading outline: presence, a single h1, no
// skipped levels and no empty headings.
type HeadingCheck struct{}

func (HeadingCheck) Name() string { return "headings" }

type heading struct {
	index int
	level int
}

func headingLevel(e Entry) (int, bool) {
	tag := e.Tag()
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0'), true
	}
	if e.Role() == "heading" {
		if lvl, err := strconv.Atoi(e.Attr("aria-level")); err == nil && lvl >= 1 && lvl <= 6 {
			return lvl, true
		}
		return 2, true
	}
	return 0, false
}

func (c HeadingCheck) Check(t *Tree) []Issue {
	var headings []heading
	for i, e := range t.Elements() {
		if t.Hidden(i) {
			continue
		}
		if lvl, ok := headingLevel(e); ok {
			headings = append(headings, heading{index: i, level: lvl})
		}
	}

	if len(headings) == 0 {
		return []Issue{rootIssue(t, c.Name(), SeverityError, GuidelineInfoRelationships,
			"No headings found",
			"Give each page section a heading, starting with a single h1.")}
	}

	var issues []Issue
	var h1s []heading
	for _, h := range headings {
		if h.level == 1 {
			h1s = append(h1s, h)
		}
	}
	switch {
	case len(h1s) == 0:
		issues = append(issues, rootIssue(t, c.Name(), SeverityError, GuidelineInfoRelationships,
			"No H1 heading found",
			"Add one h1 that describes the page content."))
	case len(h1s) > 1:
		issues = append(issues, newIssue(t, h1s[1].index, c.Name(), SeverityWarning, GuidelineInfoRelationships,
			fmt.Sprintf("Multiple H1 headings found (%d)", len(h1s)),
			"Prefer one h1 per page and use h2-h6 for subsections."))
	}

	for n, h := range headings {
		if n > 0 {
			prev := headings[n-1].level
			if h.level > prev+1 {
				issues = append(issues, newIssue(t, h.index, c.Name(), SeverityWarning, GuidelineInfoRelationships,
					fmt.Sprintf("Heading level skipped: h%d follows h%d", h.level, prev),
					fmt.Sprintf("Use an h%d here or add the missing intermediate level.", prev+1)))
			}
		}
		e := t.Entry(h.index)
		if vnode.NormalizeSpace(e.Node.TextContent()) == "" && e.Attr("aria-label") == "" {
			issues = append(issues, newIssue(t, h.index, c.Name(), SeverityError, GuidelineHeadingsLabels,
				fmt.Sprintf("Empty h%d heading", h.level),
				"Give the heading descriptive text or remove it."))
		}
	}
	return issues
}
