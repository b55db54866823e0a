package report

import (
	"bytes"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/raysh454/folio-a11y/internal/audit"
)

var (
	markdown = goldmark.New()
	policy   = bluemonday.UGCPolicy()
)

// renderMarkdown converts a remediation hint to sanitized HTML. Hints may
// embed page content (alt text, link text), so the output is always passed
// through the sanitizer.
func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}

type htmlIssue struct {
	audit.Issue
	SuggestionHTML template.HTML
}

type htmlGroup struct {
	Severity string
	Issues   []htmlIssue
}

type htmlPage struct {
	Title   string
	Result  *audit.Result
	Summary audit.Summary
	Groups  []htmlGroup
}

var pageTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 60rem; color: #1a1a1a; background: #ffffff; }
.score { font-size: 2rem; font-weight: 700; }
.error h2 { color: #b00020; }
.warning h2 { color: #7a4d00; }
.info h2 { color: #00529b; }
code { background: #f2f2f2; padding: 0 .25rem; }
li { margin-bottom: 1rem; }
</style>
</head>
<body>
<main>
<h1>{{.Title}}</h1>
<p class="score">Score {{.Result.Score}}/100</p>
<p>{{.Summary.Errors}} errors, {{.Summary.Warnings}} warnings, {{.Summary.Info}} info across {{.Result.NodeCount}} elements.</p>
{{- if not .Groups}}
<p>No issues found.</p>
{{- end}}
{{- range .Groups}}
<section class="{{.Severity}}">
<h2>{{.Severity}} ({{len .Issues}})</h2>
<ol>
{{- range .Issues}}
<li>
<p><strong>[{{.Check}}]</strong> {{.Message}}</p>
<p>at <code>{{if .Selector}}{{.Selector}}{{else}}(page){{end}}</code> · WCAG {{.Guideline}}</p>
{{- if .Suggestion}}
<div class="fix">{{.SuggestionHTML}}</div>
{{- end}}
</li>
{{- end}}
</ol>
</section>
{{- end}}
</main>
</body>
</html>
`))

// WriteHTML writes a standalone HTML report.
func WriteHTML(w io.Writer, res *audit.Result, title string) error {
	if title == "" {
		title = "Accessibility audit"
	}
	page := htmlPage{Title: title, Result: res, Summary: res.Summary()}
	for _, sev := range severities {
		issues := res.BySeverity(sev)
		if len(issues) == 0 {
			continue
		}
		g := htmlGroup{Severity: sev.String()}
		for _, is := range issues {
			g.Issues = append(g.Issues, htmlIssue{Issue: is, SuggestionHTML: renderMarkdown(is.Suggestion)})
		}
		page.Groups = append(page.Groups, g)
	}
	return pageTemplate.Execute(w, page)
}
