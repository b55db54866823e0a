package audit

import (
	"strconv"
	"strings"

	"github.com/raysh454/folio-a11y/internal/contrast"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

// FocusCheck verifies that keyboard-focusable elements show a focus
// indicator.
type FocusCheck struct{}

func (FocusCheck) Name() string { return "focus" }

var noneKeywords = map[string]bool{"": true, "none": true, "hidden": true}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true, "auto": true,
}

// sequentiallyFocusable reports whether Tab reaches entry i.
func sequentiallyFocusable(e Entry) bool {
	if isDisabled(e) {
		return false
	}
	if ti, ok := tabIndex(e); ok {
		return ti >= 0
	}
	attrs := e.Node.Attributes()
	switch e.Tag() {
	case "a", "area":
		return attrs.Has("href")
	case "button", "select", "textarea", "summary", "iframe":
		return true
	case "input":
		return !strings.EqualFold(e.Attr("type"), "hidden")
	}
	if ce, ok := attrs.Get("contenteditable"); ok {
		v := strings.ToLower(strings.TrimSpace(ce))
		return v == "" || v == "true" || v == "plaintext-only"
	}
	return false
}

func (c FocusCheck) Check(t *Tree) []Issue {
	var issues []Issue
	for i, e := range t.Elements() {
		if !sequentiallyFocusable(e) || t.Hidden(i) {
			continue
		}
		st := e.Node.FocusStyle()
		if st == nil {
			st = e.Node.ComputedStyle()
		}
		if hasOutline(st) || hasShadow(st) || hasVisibleBorder(st) {
			continue
		}
		issues = append(issues, newIssue(t, i, c.Name(), SeverityWarning, GuidelineFocusVisible,
			describe(e)+" has no visible focus indicator",
			"Keep the default outline or style :focus-visible with an outline, box-shadow or border."))
	}
	return issues
}

func hasOutline(s vnode.Style) bool {
	style, width, color := s.Get("outline-style"), s.Get("outline-width"), s.Get("outline-color")
	if style == "" {
		if sh := s.Get("outline"); sh != "" {
			style, width, color = splitLineShorthand(sh)
			if style == "" && width == "" && color == "" {
				return false
			}
			if style == "" {
				style = "auto"
			}
		}
	}
	return visibleLine(style, width, color)
}

func hasShadow(s vnode.Style) bool {
	v := strings.ToLower(s.Get("box-shadow"))
	return v != "" && v != "none"
}

func hasVisibleBorder(s vnode.Style) bool {
	for _, side := range []string{"", "-top", "-right", "-bottom", "-left"} {
		style := s.Get("border" + side + "-style")
		width := s.Get("border" + side + "-width")
		color := s.Get("border" + side + "-color")
		if style == "" {
			if sh := s.Get("border" + side); sh != "" {
				style, width, color = splitLineShorthand(sh)
			}
		}
		if visibleLine(style, width, color) {
			return true
		}
	}
	return false
}

func visibleLine(style, width, color string) bool {
	if noneKeywords[strings.ToLower(style)] {
		return false
	}
	if isZeroLength(width) {
		return false
	}
	if color != "" {
		if c, err := contrast.ParseColor(color); err == nil && c.Transparent() {
			return false
		}
	}
	return true
}

func isZeroLength(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	if !startsWithDigit(v) {
		return false
	}
	f, err := strconv.ParseFloat(strings.TrimRight(v, "abcdefghijklmnopqrstuvwxyz%"), 64)
	return err == nil && f == 0
}

// splitLineShorthand splits border/outline shorthands such as
// "2px solid rgb(0, 0, 0)" into style, width and color.
func splitLineShorthand(v string) (style, width, color string) {
	for _, tok := range vnode.SplitValue(v) {
		lt := strings.ToLower(tok)
		switch {
		case borderStyles[lt]:
			style = lt
		case lt == "thin" || lt == "medium" || lt == "thick" || startsWithDigit(lt):
			width = lt
		default:
			color = tok
		}
	}
	return style, width, color
}

func startsWithDigit(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}
