package audit

import (
	"fmt"
	"strings"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

// MinTargetSize is the minimum touch target edge in logical pixels.
const MinTargetSize = 44.0

// InteractiveCheck verifies names, target sizes and tab order of
// interactive elements.
type InteractiveCheck struct{}

func (InteractiveCheck) Name() string { return "interactive" }

var interactiveRoles = map[string]bool{
	"button":           true,
	"link":             true,
	"checkbox":         true,
	"radio":            true,
	"switch":           true,
	"tab":              true,
	"menuitem":         true,
	"menuitemcheckbox": true,
	"menuitemradio":    true,
	"option":           true,
	"textbox":          true,
	"searchbox":        true,
	"combobox":         true,
	"slider":           true,
	"spinbutton":       true,
	"treeitem":         true,
}

// genericLinkText are link texts that say nothing about their destination.
var genericLinkText = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"more":       true,
	"learn more": true,
	"link":       true,
	"this link":  true,
}

func isInteractive(e Entry) bool {
	switch e.Tag() {
	case "button", "select", "textarea":
		return true
	case "a":
		if e.Node.Attributes().Has("href") {
			return true
		}
	case "input":
		if !strings.EqualFold(e.Attr("type"), "hidden") {
			return true
		}
	}
	if interactiveRoles[e.Role()] {
		return true
	}
	return e.Node.Attributes().Has("tabindex")
}

func isDialog(e Entry) bool {
	r := e.Role()
	return e.Tag() == "dialog" || r == "dialog" || r == "alertdialog"
}

func describe(e Entry) string {
	if r := e.Role(); r != "" {
		return fmt.Sprintf(`<%s role="%s">`, e.Tag(), r)
	}
	return "<" + e.Tag() + ">"
}

func (c InteractiveCheck) Check(t *Tree) []Issue {
	var issues []Issue
	for i, e := range t.Elements() {
		if !isInteractive(e) || t.Hidden(i) {
			continue
		}

		name := t.AccessibleName(i)
		if name == "" {
			issues = append(issues, newIssue(t, i, c.Name(), SeverityError, GuidelineNameRoleValue,
				fmt.Sprintf("Interactive element %s has no accessible name", describe(e)),
				"Give it visible text, an aria-label, a title, or an image with alt text."))
		}

		if box := e.Node.BoundingBox(); box.LaidOut() && (box.Width < MinTargetSize || box.Height < MinTargetSize) {
			issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineTargetSize,
				fmt.Sprintf("Touch target is %.0fx%.0f px, below %.0fx%.0f", box.Width, box.Height, MinTargetSize, MinTargetSize),
				"Increase padding or min-width/min-height so the target is at least 44x44 px."))
		}

		if ti, ok := tabIndex(e); ok {
			switch {
			case ti < 0:
				_, inDialog := t.SelfOrClosest(i, isDialog)
				if !inDialog && !isDisabled(e) {
					issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineKeyboard,
						fmt.Sprintf("%s is removed from the keyboard tab order (tabindex=%d)", describe(e), ti),
						"Remove the negative tabindex unless focus is managed programmatically."))
				}
			case ti > 0:
				issues = append(issues, newIssue(t, i, c.Name(), SeverityInfo, GuidelineFocusOrder,
					fmt.Sprintf("Positive tabindex=%d overrides the natural focus order", ti),
					`Use tabindex="0" and order elements in the DOM instead.`))
			}
		}

		if e.Tag() == "a" && name != "" && genericLinkText[strings.ToLower(vnode.NormalizeSpace(name))] {
			issues = append(issues, newIssue(t, i, c.Name(), SeverityInfo, GuidelineLinkPurpose,
				fmt.Sprintf("Link text %q does not describe its destination", name),
				"Use link text that makes sense out of context."))
		}
	}
	return issues
}
