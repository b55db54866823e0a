package audit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/folio-a11y/internal/audit"
)

// ─── Contrast ──────────────────────────────────────────────────────────

func TestContrastCheck_FailingPairIsError(t *testing.T) {
	t.Parallel()
	p := textOn("p", "Selected work", "#777777", "#ffffff").
		WithStyle("font-size", "16px").
		WithStyle("font-weight", "400")

	issues := runCheck(t, audit.ContrastCheck{}, el("main").Append(p))

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityError, issues[0].Severity)
	assert.Equal(t, audit.GuidelineContrastMinimum, issues[0].Guideline)
	assert.Contains(t, issues[0].Message, "4.48")
	assert.Same(t, p, issues[0].Node)
	assert.NotEmpty(t, issues[0].Suggestion)
}

func TestContrastCheck_AAButNotAAAIsWarning(t *testing.T) {
	t.Parallel()
	issues := runCheck(t, audit.ContrastCheck{}, textOn("p", "Body copy", "#666666", "#ffffff"))

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityWarning, issues[0].Severity)
	assert.Equal(t, audit.GuidelineContrastEnhanced, issues[0].Guideline)
}

func TestContrastCheck_LargeTextRelaxesThreshold(t *testing.T) {
	t.Parallel()
	// 4.48:1 passes AA for 24px text but misses the 4.5:1 AAA threshold.
	h := textOn("h2", "Projects", "#777777", "#ffffff").WithStyle("font-size", "24px")
	issues := runCheck(t, audit.ContrastCheck{}, h)

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityWarning, issues[0].Severity)
}

func TestContrastCheck_Skips(t *testing.T) {
	t.Parallel()
	root := el("div").Append(
		textOn("p", "transparent bg", "#777777", "transparent"),
		textOn("p", "zero alpha bg", "#777777", "rgba(255, 255, 255, 0)"),
		textOn("p", "unparsable fg", "var(--muted)", "#ffffff"),
		textOn("p", "unparsable bg", "#777777", "linear-gradient(red, blue)"),
		textOn("p", "hidden", "#777777", "#ffffff").WithStyle("display", "none"),
		el("p").WithStyle("color", "#777777").WithStyle("background-color", "#ffffff"),
		textOn("p", "   ", "#777777", "#ffffff"),
	)
	assert.Empty(t, runCheck(t, audit.ContrastCheck{}, root))
}

func TestContrastCheck_TranslucentTextIsBlended(t *testing.T) {
	t.Parallel()
	// Black at 40% over white renders as #999999, about 2.85:1.
	issues := runCheck(t, audit.ContrastCheck{}, textOn("span", "muted", "rgba(0, 0, 0, 0.4)", "#ffffff"))
	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityError, issues[0].Severity)
}

// ─── Headings ──────────────────────────────────────────────────────────

func TestHeadingCheck_MissingH1(t *testing.T) {
	t.Parallel()
	root := el("section").Append(el("h2").WithText("Projects"), el("h3").WithText("Portfolio site"))
	issues := runCheck(t, audit.HeadingCheck{}, root)

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityError, issues[0].Severity)
	assert.Equal(t, "No H1 heading found", issues[0].Message)
}

func TestHeadingCheck_NoHeadings(t *testing.T) {
	t.Parallel()
	issues := runCheck(t, audit.HeadingCheck{}, el("div").Append(el("p").WithText("text")))
	require.Len(t, issues, 1)
	assert.Equal(t, "No headings found", issues[0].Message)
}

func TestHeadingCheck_MultipleH1IsWarning(t *testing.T) {
	t.Parallel()
	root := el("body").Append(el("h1").WithText("Home"), el("h1").WithText("About"))
	issues := runCheck(t, audit.HeadingCheck{}, root)

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "Multiple H1")
}

func TestHeadingCheck_SkippedLevelsAndEmpty(t *testing.T) {
	t.Parallel()
	root := el("body").Append(
		el("h1").WithText("Jane"),
		el("h3").WithText("Experience"),
		el("h4").WithText("  "),
		el("h2").WithText("Contact"),
		el("div").WithAttr("role", "heading").WithAttr("aria-level", "5").WithText("Footnote"),
	)
	issues := runCheck(t, audit.HeadingCheck{}, root)

	var skipped, empty int
	for _, is := range issues {
		switch {
		case strings.HasPrefix(is.Message, "Heading level skipped"):
			skipped++
			assert.Equal(t, audit.SeverityWarning, is.Severity)
		case strings.HasPrefix(is.Message, "Empty"):
			empty++
			assert.Equal(t, audit.SeverityError, is.Severity)
		}
	}
	assert.Equal(t, 2, skipped, "h1->h3 and h2->h5")
	assert.Equal(t, 1, empty)
	assert.Len(t, issues, 3)
}

// ─── Forms ─────────────────────────────────────────────────────────────

func TestFormCheck_UnlabeledInput(t *testing.T) {
	t.Parallel()
	root := el("form").Append(el("input").WithAttr("type", "text").WithAttr("name", "q"))
	issues := runCheck(t, audit.FormCheck{}, root)

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityError, issues[0].Severity)
	assert.Equal(t, audit.GuidelineInfoRelationships, issues[0].Guideline)
}

func TestFormCheck_LabelMechanisms(t *testing.T) {
	t.Parallel()
	root := el("form").Append(
		el("label").WithAttr("for", "name").WithText("Name"),
		el("input").WithAttr("id", "name"),
		el("label").WithText("Email ").Append(el("input").WithAttr("type", "email")),
		el("textarea").WithAttr("aria-label", "Message"),
		el("span").WithAttr("id", "topic-label").WithText("Topic"),
		el("select").WithAttr("aria-labelledby", "topic-label"),
		el("input").WithAttr("type", "hidden").WithAttr("name", "csrf"),
		el("input").WithAttr("type", "submit").WithAttr("value", "Send"),
	)
	assert.Empty(t, runCheck(t, audit.FormCheck{}, root))
}

func TestFormCheck_RequiredCues(t *testing.T) {
	t.Parallel()
	root := el("form").Append(
		el("label").WithAttr("for", "a").WithText("Name"),
		el("input").WithAttr("id", "a").WithAttr("required", ""),
		el("label").WithAttr("for", "b").WithText("Email *"),
		el("input").WithAttr("id", "b").WithAttr("required", ""),
		el("label").WithAttr("for", "c").WithText("Phone"),
		el("input").WithAttr("id", "c").WithAttr("required", "").WithAttr("aria-required", "true"),
		el("label").WithAttr("for", "d").WithText("Company ").Append(el("span").WithAttr("class", "required")),
		el("input").WithAttr("id", "d").WithAttr("required", ""),
		el("label").WithAttr("for", "e").WithText("Budget (required)"),
		el("input").WithAttr("id", "e").WithAttr("required", ""),
	)
	issues := runCheck(t, audit.FormCheck{}, root)

	require.Len(t, issues, 1)
	assert.Equal(t, audit.SeverityWarning, issues[0].Severity)
	assert.Equal(t, audit.GuidelineLabels, issues[0].Guideline)
	assert.Equal(t, "#a", issues[0].Selector)
}

func TestFormCheck_InvalidNeedsDescription(t *testing.T) {
	t.Parallel()
	root := el("form").Append(
		el("input").WithAttr("aria-label", "Email").WithAttr("aria-invalid", "true"),
		el("input").WithAttr("aria-label", "Name").WithAttr("aria-invalid", "true").WithAttr("aria-describedby", "missing"),
		el("input").WithAttr("aria-label", "Phone").WithAttr("aria-invalid", "true").WithAttr("aria-describedby", "phone-err"),
		el("p").WithAttr("id", "phone-err").WithText("Enter digits only"),
	)
	issues := runCheck(t, audit.FormCheck{}, root)

	require.Len(t, issues, 2)
	for _, is := range issues {
		assert.Equal(t, audit.GuidelineErrorIdent, is.Guideline)
		assert.Equal(t, audit.SeverityError, is.Severity)
	}
}

// ─── Images ────────────────────────────────────────────────────────────

func TestImageCheck_DecorativeInsideButton(t *testing.T) {
	t.Parallel()
	root := el("button").WithAttr("aria-label", "Close").Append(el("img").WithAttr("src", "x.svg").WithAttr("alt", ""))
	assert.Empty(t, runCheck(t, audit.ImageCheck{}, root))
}

func TestImageCheck_Cases(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("a very detailed description ", 6)
	root := el("div").Append(
		el("img").WithAttr("src", "missing.png"),
		el("img").WithAttr("src", "spacer.gif").WithAttr("role", "presentation"),
		el("img").WithAttr("src", "empty.png").WithAttr("alt", ""),
		el("div").WithAttr("class", "hero decorative").Append(el("img").WithAttr("alt", "")),
		el("img").WithAttr("src", "long.png").WithAttr("alt", long),
		el("img").WithAttr("src", "ok.png").WithAttr("aria-label", "Team photo"),
		el("svg").WithAttr("role", "img"),
	)
	issues := runCheck(t, audit.ImageCheck{}, root)

	require.Equal(t, []string{
		audit.GuidelineNonTextContent,
		audit.GuidelineNonTextContent,
		audit.GuidelineNonTextContent,
		audit.GuidelineNonTextContent,
	}, guidelines(issues))
	assert.Equal(t, audit.SeverityError, issues[0].Severity, "missing alt")
	assert.Equal(t, audit.SeverityWarning, issues[1].Severity, "empty alt")
	assert.Equal(t, audit.SeverityWarning, issues[2].Severity, "long alt")
	assert.Contains(t, issues[2].Message, "characters")
	assert.Equal(t, audit.SeverityError, issues[3].Severity, "unnamed svg")
}

// ─── Interactive ───────────────────────────────────────────────────────

func TestInteractiveCheck_Names(t *testing.T) {
	t.Parallel()
	root := el("nav").Append(
		el("button"),
		el("button").Append(el("img").WithAttr("alt", "Search")),
		el("a").WithAttr("href", "/cv").WithAttr("title", "Curriculum vitae"),
		el("a").WithAttr("href", "#top"),
		el("a").WithText("not a link without href"),
		el("div").WithAttr("role", "button").WithAttr("aria-label", "Toggle theme"),
		el("span").WithAttr("tabindex", "0"),
	)
	issues := runCheck(t, audit.InteractiveCheck{}, root)

	require.Len(t, issues, 3)
	for _, is := range issues {
		assert.Equal(t, audit.GuidelineNameRoleValue, is.Guideline)
		assert.Equal(t, audit.SeverityError, is.Severity)
	}
	assert.Equal(t, "nav > button:nth-of-type(1)", issues[0].Selector)
}

func TestInteractiveCheck_TargetSize(t *testing.T) {
	t.Parallel()
	root := el("div").Append(
		el("button").WithText("Small").WithBox(0, 0, 30, 44),
		el("button").WithText("Big").WithBox(0, 0, 44, 44),
		el("button").WithText("Unlaid").WithBox(0, 0, 0, 20),
	)
	issues := runCheck(t, audit.InteractiveCheck{}, root)

	require.Len(t, issues, 1)
	assert.Equal(t, audit.GuidelineTargetSize, issues[0].Guideline)
	assert.Equal(t, audit.SeverityWarning, issues[0].Severity)
}

func TestInteractiveCheck_TabOrder(t *testing.T) {
	t.Parallel()
	root := el("div").Append(
		el("button").WithText("Hidden from tab").WithAttr("tabindex", "-1"),
		el("div").WithAttr("role", "dialog").Append(el("button").WithText("Close").WithAttr("tabindex", "-1")),
		el("button").WithText("Disabled").WithAttr("tabindex", "-1").WithAttr("disabled", ""),
		el("a").WithAttr("href", "/").WithText("Home").WithAttr("tabindex", "2"),
		el("a").WithAttr("href", "/blog").WithText("Read more"),
	)
	issues := runCheck(t, audit.InteractiveCheck{}, root)

	assert.Equal(t, []string{
		audit.GuidelineKeyboard,
		audit.GuidelineFocusOrder,
		audit.GuidelineLinkPurpose,
	}, guidelines(issues))
	assert.Equal(t, audit.SeverityInfo, issues[1].Severity)
	assert.Equal(t, audit.SeverityInfo, issues[2].Severity)
}

func TestInteractiveCheck_LabeledInputHasName(t *testing.T) {
	t.Parallel()
	root := el("form").Append(
		el("label").WithAttr("for", "q").WithText("Search"),
		el("input").WithAttr("id", "q"),
		el("input").WithAttr("type", "submit").WithAttr("value", "Go"),
		el("select").Append(el("option").WithText("Only option text")),
	)
	issues := runCheck(t, audit.InteractiveCheck{}, root)

	require.Len(t, issues, 1, "select is not named by its options")
	assert.Contains(t, issues[0].Message, "<select>")
}

// ─── Focus ─────────────────────────────────────────────────────────────

func TestFocusCheck(t *testing.T) {
	t.Parallel()
	root := el("div").Append(
		el("button").WithText("no ring").WithFocusStyle("outline-style", "none"),
		el("button").WithText("shadow").WithFocusStyle("outline-style", "none").WithFocusStyle("box-shadow", "0 0 0 3px rgba(0, 95, 204, 0.6)"),
		el("button").WithText("border").WithFocusStyle("border", "2px solid #005fcc"),
		el("button").WithText("clear border").WithFocusStyle("border", "2px solid transparent"),
		el("a").WithAttr("href", "#").WithText("shorthand").WithFocusStyle("outline", "3px dashed rgb(0, 0, 0)"),
		el("a").WithAttr("href", "#").WithText("zero").WithFocusStyle("outline", "0"),
		el("input").WithAttr("aria-label", "fallback").WithStyle("outline-style", "auto"),
		el("button").WithText("skipped").WithAttr("tabindex", "-1"),
		el("button").WithText("disabled").WithAttr("disabled", ""),
		el("div").WithText("not focusable"),
	)
	issues := runCheck(t, audit.FocusCheck{}, root)

	var sels []string
	for _, is := range issues {
		assert.Equal(t, audit.GuidelineFocusVisible, is.Guideline)
		assert.Equal(t, audit.SeverityWarning, is.Severity)
		sels = append(sels, is.Selector)
	}
	assert.Equal(t, []string{
		"div > button:nth-of-type(1)",
		"div > button:nth-of-type(4)",
		"div > a:nth-of-type(2)",
	}, sels)
}

// ─── Tree ──────────────────────────────────────────────────────────────

func TestTree_SelectorsAndLookups(t *testing.T) {
	t.Parallel()
	root := el("main").Append(
		el("section").WithAttr("id", "contact").Append(
			el("label").WithAttr("for", "msg").WithText("Message"),
			el("textarea").WithAttr("id", "msg"),
			el("p").WithText("one"),
		),
		el("section").Append(el("p").WithText("two")),
	)
	tree := audit.NewTree(root)

	require.Equal(t, 7, tree.Len())
	assert.Equal(t, "main", tree.Selector(0))
	assert.Equal(t, "#contact", tree.Selector(1))
	assert.Equal(t, "#contact > p", tree.Selector(4))
	assert.Equal(t, "main > section:nth-of-type(2) > p", tree.Selector(6))

	msg, ok := tree.ByID("msg")
	require.True(t, ok)
	assert.Equal(t, "Message", tree.AccessibleName(msg.Index))
	assert.Len(t, tree.LabelsFor("msg"), 1)
}
