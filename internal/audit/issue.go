package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

// Severity classifies a finding.
type Severity int

const (
	// SeverityError is a definite violation.
	SeverityError Severity = iota
	// SeverityWarning is a borderline or heuristic finding.
	SeverityWarning
	// SeverityInfo is advisory.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", string(b))
	}
	return nil
}

// WCAG success criteria cited by the checkers.
const (
	GuidelineNonTextContent    = "1.1.1 Non-text Content"
	GuidelineInfoRelationships = "1.3.1 Info and Relationships"
	GuidelineContrastMinimum   = "1.4.3 Contrast (Minimum)"
	GuidelineContrastEnhanced  = "1.4.6 Contrast (Enhanced)"
	GuidelineKeyboard          = "2.1.1 Keyboard"
	GuidelineFocusOrder        = "2.4.3 Focus Order"
	GuidelineLinkPurpose       = "2.4.4 Link Purpose (In Context)"
	GuidelineHeadingsLabels    = "2.4.6 Headings and Labels"
	GuidelineFocusVisible      = "2.4.7 Focus Visible"
	GuidelineTargetSize        = "2.5.5 Target Size"
	GuidelineErrorIdent        = "3.3.1 Error Identification"
	GuidelineLabels            = "3.3.2 Labels or Instructions"
	GuidelineNameRoleValue     = "4.1.2 Name, Role, Value"
)

// Issue is one finding.
type Issue struct {
	Severity Severity `json:"severity"`

	// Node is the offending node. It is only read, never retained past the
	// consumer's use of the report.
	Node vnode.VisualNode `json:"-"`

	// Selector locates Node relative to the audited root.
	Selector string `json:"selector"`

	// Check names the checker that produced the issue.
	Check string `json:"check"`

	Message    string `json:"message"`
	Guideline  string `json:"guideline"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Summary counts issues by severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Total is the number of issues counted.
func (s Summary) Total() int {
	return s.Errors + s.Warnings + s.Info
}

func summarize(issues []Issue) Summary {
	var s Summary
	for _, is := range issues {
		switch is.Severity {
		case SeverityError:
			s.Errors++
		case SeverityWarning:
			s.Warnings++
		default:
			s.Info++
		}
	}
	return s
}

// Result is an audit report. It is immutable: accessors return copies.
type Result struct {
	id        string
	issues    []Issue
	summary   Summary
	score     int
	nodeCount int
	auditedAt time.Time
}

func newResult(id string, issues []Issue, nodeCount int, at time.Time) *Result {
	own := make([]Issue, len(issues))
	copy(own, issues)
	summary := summarize(own)
	return &Result{
		id:        id,
		issues:    own,
		summary:   summary,
		score:     Score(summary, nodeCount),
		nodeCount: nodeCount,
		auditedAt: at,
	}
}

// ID identifies this audit run.
func (r *Result) ID() string { return r.id }

// Issues returns the findings in discovery order.
func (r *Result) Issues() []Issue {
	out := make([]Issue, len(r.issues))
	copy(out, r.issues)
	return out
}

// Issue returns the i-th finding.
func (r *Result) Issue(i int) (Issue, bool) {
	if i < 0 || i >= len(r.issues) {
		return Issue{}, false
	}
	return r.issues[i], true
}

// Len is the number of findings.
func (r *Result) Len() int { return len(r.issues) }

func (r *Result) Summary() Summary     { return r.summary }
func (r *Result) Score() int           { return r.score }
func (r *Result) NodeCount() int       { return r.nodeCount }
func (r *Result) AuditedAt() time.Time { return r.auditedAt }

// BySeverity returns the findings with severity s, in discovery order.
func (r *Result) BySeverity(s Severity) []Issue {
	var out []Issue
	for _, is := range r.issues {
		if is.Severity == s {
			out = append(out, is)
		}
	}
	return out
}

type resultJSON struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Summary   Summary   `json:"summary"`
	NodeCount int       `json:"node_count"`
	AuditedAt time.Time `json:"audited_at"`
	Issues    []Issue   `json:"issues"`
}

func (r *Result) MarshalJSON() ([]byte, error) {
	issues := r.issues
	if issues == nil {
		issues = []Issue{}
	}
	return json.Marshal(resultJSON{
		ID:        r.id,
		Score:     r.score,
		Summary:   r.summary,
		NodeCount: r.nodeCount,
		AuditedAt: r.auditedAt,
		Issues:    issues,
	})
}
