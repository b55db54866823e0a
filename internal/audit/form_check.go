package audit

import (
	"strings"
)

// FormCheck verifies labels, required-field cues and error descriptions of
// form controls.
type FormCheck struct{}

func (FormCheck) Name() string { return "forms" }

// unlabeledInputTypes name themselves or are not user-editable.
var unlabeledInputTypes = map[string]bool{
	"hidden": true,
	"submit": true,
	"button": true,
	"reset":  true,
	"image":  true,
}

func isLabelable(e Entry) bool {
	switch e.Tag() {
	case "select", "textarea":
		return true
	case "input":
		return !unlabeledInputTypes[strings.ToLower(e.Attr("type"))]
	}
	return false
}

func (c FormCheck) Check(t *Tree) []Issue {
	var issues []Issue
	for i, e := range t.Elements() {
		if !isLabelable(e) || t.Hidden(i) {
			continue
		}

		if !t.hasLabel(i) {
			issues = append(issues, newIssue(t, i, c.Name(), SeverityError, GuidelineInfoRelationships,
				"Form control has no associated label",
				`Add a <label for="…">, wrap the control in a <label>, or set aria-label / aria-labelledby.`))
		}

		if e.Node.Attributes().Has("required") && !t.hasRequiredCue(i) {
			issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineLabels,
				"Required field is not indicated to assistive technology or in its label",
				`Set aria-required="true" or mark the label as required (for example with "*" and a legend).`))
		}

		if isTrue(e.Attr("aria-invalid")) {
			if _, ok := t.referencedText(e.Attr("aria-describedby")); !ok {
				issues = append(issues, newIssue(t, i, c.Name(), SeverityError, GuidelineErrorIdent,
					"Invalid field has no associated error description",
					"Point aria-describedby at an element that explains the error."))
			}
		}
	}
	return issues
}

// hasRequiredCue reports whether a required control says so through
// aria-required or its label text.
func (t *Tree) hasRequiredCue(i int) bool {
	e := t.entries[i]
	if isTrue(e.Attr("aria-required")) {
		return true
	}
	text := strings.ToLower(t.labelText(i))
	if strings.Contains(text, "required") || strings.Contains(text, "*") {
		return true
	}
	for _, l := range t.labelEntries(i) {
		marked := false
		t.Descendants(l.Index, func(d Entry) {
			if d.Node.Attributes().HasClass("required") {
				marked = true
			}
		})
		if marked || l.Node.Attributes().HasClass("required") {
			return true
		}
	}
	return false
}
