package audit

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxAltLength is the longest text alternative considered concise.
const MaxAltLength = 125

// ImageCheck verifies text alternatives of images.
type ImageCheck struct{}

func (ImageCheck) Name() string { return "images" }

var decorativeClasses = []string{"decorative", "is-decorative"}

func hasDecorativeClass(e Entry) bool {
	for _, c := range decorativeClasses {
		if e.Node.Attributes().HasClass(c) {
			return true
		}
	}
	return false
}

func isPresentational(e Entry) bool {
	r := e.Role()
	return r == "presentation" || r == "none" || isTrue(e.Attr("aria-hidden"))
}

func isButton(e Entry) bool {
	return e.Tag() == "button" || e.Role() == "button"
}

func (c ImageCheck) Check(t *Tree) []Issue {
	var issues []Issue
	for i, e := range t.Elements() {
		if t.Hidden(i) {
			continue
		}
		if e.Tag() != "img" {
			if e.Role() == "img" && t.AccessibleName(i) == "" {
				issues = append(issues, newIssue(t, i, c.Name(), SeverityError, GuidelineNonTextContent,
					fmt.Sprintf(`<%s role="img"> has no accessible name`, e.Tag()),
					"Add aria-label or aria-labelledby describing the graphic."))
			}
			continue
		}

		attrs := e.Node.Attributes()
		alt, hasAlt := attrs.Get("alt")
		alt = strings.TrimSpace(alt)
		hasAria := e.Attr("aria-label") != "" || e.Attr("aria-labelledby") != ""

		if !hasAlt && !hasAria {
			if !isPresentational(e) && !hasDecorativeClass(e) {
				issues = append(issues, newIssue(t, i, c.Name(), SeverityError, GuidelineNonTextContent,
					"Image is missing alternative text",
					`Add an alt attribute describing the image, or alt="" if it is purely decorative.`))
			}
			continue
		}

		if hasAlt && alt == "" && !hasAria {
			if !t.decorativeContext(i) {
				issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineNonTextContent,
					"Image has empty alt text outside a decorative context",
					`If the image conveys information, describe it; otherwise add role="presentation".`))
			}
			continue
		}

		if n := utf8.RuneCountInString(alt); n > MaxAltLength {
			issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineNonTextContent,
				fmt.Sprintf("Alt text is %d characters long (over %d)", n, MaxAltLength),
				"Keep alt text concise and move long descriptions into surrounding text or aria-describedby."))
		}
	}
	return issues
}

// decorativeContext reports whether an empty alt on entry i is clearly
// intentional.
func (t *Tree) decorativeContext(i int) bool {
	e := t.entries[i]
	if isPresentational(e) || hasDecorativeClass(e) {
		return true
	}
	_, ok := t.Closest(i, func(a Entry) bool {
		return isButton(a) || hasDecorativeClass(a) || a.Role() == "presentation"
	})
	return ok
}
