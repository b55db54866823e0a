package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/report"
	"github.com/raysh454/folio-a11y/internal/testutil"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

func mustAudit(t *testing.T, root vnode.VisualNode) *audit.Result {
	t.Helper()
	res, err := audit.RunAudit(root)
	require.NoError(t, err)
	return res
}

func TestText_GroupsBySeverity(t *testing.T) {
	t.Parallel()
	root := testutil.BrokenPage().Append(
		vnode.NewElement("a").WithAttr("href", "/blog").WithText("Read more"),
	)
	res := mustAudit(t, root)
	out := report.Text(res, report.TextOptions{NoColor: true})

	errIdx := strings.Index(out, "ERRORS (3)")
	infoIdx := strings.Index(out, "INFO (1)")
	require.GreaterOrEqual(t, errIdx, 0, out)
	require.Greater(t, infoIdx, errIdx, out)
	assert.Contains(t, out, "[contrast] Insufficient color contrast ratio: 4.48:1")
	assert.Contains(t, out, "at main > p · WCAG 1.4.3 Contrast (Minimum)")
	assert.Contains(t, out, "at main · WCAG 1.3.1 Info and Relationships")
	assert.Contains(t, out, "fix: ")
	assert.NotContains(t, out, "\x1b[", "NoColor output must not carry escape codes")
}

func TestText_Filters(t *testing.T) {
	t.Parallel()
	root := testutil.BrokenPage().Append(
		vnode.NewElement("a").WithAttr("href", "/blog").WithText("Read more"),
	)
	res := mustAudit(t, root)

	errorsOnly := report.Text(res, report.TextOptions{NoColor: true, ErrorsOnly: true, HideSuggestions: true})
	assert.Contains(t, errorsOnly, "ERRORS")
	assert.NotContains(t, errorsOnly, "INFO (")
	assert.NotContains(t, errorsOnly, "fix: ")

	noInfo := report.Text(res, report.TextOptions{NoColor: true, HideInfo: true})
	assert.NotContains(t, noInfo, "Read more")
}

func TestText_CleanPage(t *testing.T) {
	t.Parallel()
	res := mustAudit(t, testutil.AccessiblePage())
	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, res, report.TextOptions{NoColor: true}))
	assert.Contains(t, buf.String(), "score 100/100")
	assert.Contains(t, buf.String(), "No issues found.")
}

func TestLogGrouped(t *testing.T) {
	t.Parallel()
	res := mustAudit(t, testutil.BrokenPage())
	logger := &testutil.DummyLogger{}
	report.LogGrouped(logger, res)

	assert.Equal(t, []string{"accessibility audit"}, logger.Infos)
	assert.Len(t, logger.Errors, 3)
	assert.Empty(t, logger.Warns)
	assert.Contains(t, logger.Errors[0], "Insufficient color contrast")
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	res := mustAudit(t, testutil.BrokenPage())
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, res))

	var decoded struct {
		ID      string        `json:"id"`
		Score   int           `json:"score"`
		Summary audit.Summary `json:"summary"`
		Issues  []audit.Issue `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, res.ID(), decoded.ID)
	assert.Equal(t, res.Score(), decoded.Score)
	assert.Equal(t, 3, decoded.Summary.Errors)
	require.Len(t, decoded.Issues, 3)
	assert.Equal(t, audit.SeverityError, decoded.Issues[0].Severity)
}

type fakeCheck struct{ suggestion string }

func (fakeCheck) Name() string { return "fake" }

func (f fakeCheck) Check(t *audit.Tree) []audit.Issue {
	return []audit.Issue{{
		Severity:   audit.SeverityInfo,
		Node:       t.Root(),
		Check:      "fake",
		Message:    "Suspicious <b>markup</b>",
		Guideline:  audit.GuidelineFocusOrder,
		Suggestion: f.suggestion,
	}}
}

func TestWriteHTML_SanitizesContent(t *testing.T) {
	t.Parallel()
	a := audit.New(audit.WithCheckers(fakeCheck{suggestion: "Use `tabindex=\"0\"` instead. <script>alert(1)</script> <a href=\"javascript:alert(2)\">x</a>"}))
	res, err := a.Run(vnode.NewElement("main"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf, res, `Jane's <portfolio>`))
	out := buf.String()

	assert.Contains(t, out, "<title>Jane&#39;s &lt;portfolio&gt;</title>")
	assert.Contains(t, out, `<section class="info">`)
	assert.Contains(t, out, "<code>tabindex=", "markdown code spans are rendered")
	assert.Contains(t, out, "Suspicious &lt;b&gt;markup&lt;/b&gt;")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestWriteHTML_NoIssues(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf, mustAudit(t, testutil.AccessiblePage()), ""))
	assert.Contains(t, buf.String(), "<title>Accessibility audit</title>")
	assert.Contains(t, buf.String(), "No issues found.")
}

func TestDiff(t *testing.T) {
	t.Parallel()
	before := mustAudit(t, testutil.BrokenPage())
	after := mustAudit(t, testutil.BrokenPage().Append(vnode.NewElement("h1").WithText("Jane Doe")))

	d := report.Diff(before, after)
	assert.Contains(t, d, "- ")
	assert.Contains(t, d, "No H1 heading found")
	for _, line := range strings.Split(strings.TrimSpace(d), "\n") {
		assert.True(t, strings.HasPrefix(line, "+ ") || strings.HasPrefix(line, "- "), line)
	}

	assert.Empty(t, report.Diff(before, before))
	assert.Empty(t, report.Diff(nil, after))
}
