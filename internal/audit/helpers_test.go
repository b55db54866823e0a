package audit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

func el(tag string) *vnode.Element { return vnode.NewElement(tag) }

// focusRing gives e a visible focus outline.
func focusRing(e *vnode.Element) *vnode.Element {
	return e.WithFocusStyle("outline-style", "solid").WithFocusStyle("outline-width", "2px")
}

func textOn(tag, text, fg, bg string) *vnode.Element {
	return el(tag).WithStyle("color", fg).WithStyle("background-color", bg).WithText(text)
}

// cleanPage is a small portfolio page that passes every check.
func cleanPage() *vnode.Element {
	return el("main").
		WithStyle("color", "#000000").
		WithStyle("background-color", "#ffffff").
		Append(
			textOn("h1", "Jane Doe", "#111111", "#ffffff"),
			textOn("p", "Designer and engineer building accessible products.", "#222222", "#ffffff"),
			el("h2").WithText("Contact"),
			el("label").WithAttr("for", "email").WithText("Email"),
			focusRing(el("input").WithAttr("id", "email").WithAttr("type", "email").WithBox(0, 0, 240, 44)),
			el("img").WithAttr("src", "me.jpg").WithAttr("alt", "Portrait of Jane"),
			focusRing(el("button").WithAttr("type", "submit").WithBox(0, 0, 120, 48).WithText("Send")),
			focusRing(el("a").WithAttr("href", "/resume.pdf").WithBox(0, 0, 160, 44).WithText("Download résumé")),
		)
}

// runCheck audits root with a single checker.
func runCheck(t *testing.T, c audit.Checker, root vnode.VisualNode) []audit.Issue {
	t.Helper()
	res, err := audit.New(audit.WithCheckers(c)).Run(root)
	require.NoError(t, err)
	return res.Issues()
}

func guidelines(issues []audit.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, is := range issues {
		out = append(out, is.Guideline)
	}
	return out
}
