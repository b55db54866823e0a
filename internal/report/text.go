// Package report renders audit results for people and machines: styled
// terminal text, structured logs, JSON, standalone HTML and diffs between
// two runs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/raysh454/folio-a11y/internal/audit"
)

// TextOptions controls WriteText.
type TextOptions struct {
	// NoColor disables terminal styling.
	NoColor bool
	// ErrorsOnly hides warnings and advisories.
	ErrorsOnly bool
	// HideInfo hides advisories.
	HideInfo bool
	// HideSuggestions omits the remediation lines.
	HideSuggestions bool
}

var severities = []audit.Severity{audit.SeverityError, audit.SeverityWarning, audit.SeverityInfo}

type palette struct {
	title, dim, bold lipgloss.Style
	sev              map[audit.Severity]lipgloss.Style
}

func newPalette(noColor bool) palette {
	if noColor {
		plain := lipgloss.NewStyle()
		return palette{title: plain, dim: plain, bold: plain, sev: map[audit.Severity]lipgloss.Style{
			audit.SeverityError: plain, audit.SeverityWarning: plain, audit.SeverityInfo: plain,
		}}
	}
	return palette{
		title: lipgloss.NewStyle().Bold(true).Underline(true),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		bold:  lipgloss.NewStyle().Bold(true),
		sev: map[audit.Severity]lipgloss.Style{
			audit.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			audit.SeverityWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
			audit.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		},
	}
}

var groupTitles = map[audit.Severity]string{
	audit.SeverityError:   "ERRORS",
	audit.SeverityWarning: "WARNINGS",
	audit.SeverityInfo:    "INFO",
}

var marks = map[audit.Severity]string{
	audit.SeverityError:   "✗",
	audit.SeverityWarning: "!",
	audit.SeverityInfo:    "i",
}

// WriteText writes a human-readable report grouped by severity.
func WriteText(w io.Writer, res *audit.Result, opts TextOptions) error {
	_, err := io.WriteString(w, Text(res, opts))
	return err
}

// Text renders the report WriteText writes.
func Text(res *audit.Result, opts TextOptions) string {
	p := newPalette(opts.NoColor)
	var b strings.Builder

	s := res.Summary()
	fmt.Fprintf(&b, "%s  score %d/100\n", p.title.Render("Accessibility audit"), res.Score())
	fmt.Fprintf(&b, "%s\n", p.dim.Render(fmt.Sprintf("%s, %s, %d info across %d elements",
		plural(s.Errors, "error"), plural(s.Warnings, "warning"), s.Info, res.NodeCount())))

	if s.Total() == 0 {
		b.WriteString("\nNo issues found.\n")
		return b.String()
	}

	for _, sev := range severities {
		if (opts.ErrorsOnly && sev != audit.SeverityError) || (opts.HideInfo && sev == audit.SeverityInfo) {
			continue
		}
		issues := res.BySeverity(sev)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s\n", p.sev[sev].Render(fmt.Sprintf("%s (%d)", groupTitles[sev], len(issues))))
		for _, is := range issues {
			fmt.Fprintf(&b, "  %s %s %s\n", p.sev[sev].Render(marks[sev]), p.bold.Render("["+is.Check+"]"), is.Message)
			loc := is.Selector
			if loc == "" {
				loc = "(page)"
			}
			fmt.Fprintf(&b, "      %s\n", p.dim.Render(fmt.Sprintf("at %s · WCAG %s", loc, is.Guideline)))
			if !opts.HideSuggestions && is.Suggestion != "" {
				fmt.Fprintf(&b, "      fix: %s\n", is.Suggestion)
			}
		}
	}
	return b.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
