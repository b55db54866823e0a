// Package audit inspects a rendered interface tree and reports WCAG
// violations for a fixed set of checks, aggregated into a scored Result.
package audit

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

var (
	// ErrNilRoot is returned when Run is called without a root node.
	ErrNilRoot = errors.New("audit: nil root node")

	// ErrNotRenderable is returned when the root is not an element or
	// document node.
	ErrNotRenderable = errors.New("audit: root is not part of a renderable tree")
)

// IssueDensity scales the element count into the score denominator. It is
// empirical: the score is a size-normalized heuristic, not a percentage of
// compliant elements.
const IssueDensity = 0.5

// Checker is one independent, read-only structural auditor.
type Checker interface {
	Name() string
	Check(t *Tree) []Issue
}

// DefaultCheckers returns the built-in checkers in declaration order.
func DefaultCheckers() []Checker {
	return []Checker{
		ContrastCheck{},
		HeadingCheck{},
		FormCheck{},
		ImageCheck{},
		InteractiveCheck{},
		FocusCheck{},
	}
}

// Auditor runs checkers over a tree. It holds no per-run state, so one
// Auditor may serve concurrent Run calls on quiescent trees.
type Auditor struct {
	checkers []Checker
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l logging.Logger) Option {
	return func(a *Auditor) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCheckers replaces the default checkers. Passing none keeps the
// defaults.
func WithCheckers(checkers ...Checker) Option {
	return func(a *Auditor) {
		if len(checkers) > 0 {
			a.checkers = checkers
		}
	}
}

// WithClock sets the source of Result.AuditedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) {
		if now != nil {
			a.now = now
		}
	}
}

// WithIDGenerator sets the source of Result.ID.
func WithIDGenerator(newID func() string) Option {
	return func(a *Auditor) {
		if newID != nil {
			a.newID = newID
		}
	}
}

// New returns an Auditor running DefaultCheckers with a UTC clock and
// random ids unless opts say otherwise.
func New(opts ...Option) *Auditor {
	a := &Auditor{
		checkers: DefaultCheckers(),
		logger:   logging.NopLogger{},
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(logging.F("component", "auditor"))
	return a
}

// RunAudit audits root with the default checkers.
func RunAudit(root vnode.VisualNode) (*Result, error) {
	return New().Run(root)
}

// Run audits the subtree under root and returns a new Result. It fails only
// when root cannot be audited at all; accessibility failures are reported
// as issues.
func (a *Auditor) Run(root vnode.VisualNode) (*Result, error) {
	if isNil(root) {
		return nil, ErrNilRoot
	}
	if k := root.Kind(); k != vnode.ElementNode && k != vnode.DocumentNode {
		return nil, fmt.Errorf("%w: got %s node", ErrNotRenderable, k)
	}

	start := time.Now()
	tree := NewTree(root)

	var issues []Issue
	for _, c := range a.checkers {
		issues = append(issues, a.runChecker(c, tree)...)
	}

	res := newResult(a.newID(), issues, tree.Len(), a.now())
	a.logger.Debug("audit complete",
		logging.F("audit_id", res.ID()),
		logging.F("elements", tree.Len()),
		logging.F("errors", res.Summary().Errors),
		logging.F("warnings", res.Summary().Warnings),
		logging.F("info", res.Summary().Info),
		logging.F("score", res.Score()),
		logging.F("elapsed", time.Since(start).String()))
	return res, nil
}

// runChecker isolates a misbehaving checker: a panic drops its findings
// instead of failing the audit.
func (a *Auditor) runChecker(c Checker, t *Tree) (out []Issue) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("checker panicked",
				logging.F("check", c.Name()),
				logging.F("panic", fmt.Sprint(r)))
			out = nil
		}
	}()
	return c.Check(t)
}

// Score maps a summary and subtree size to 0..100:
//
//	100 - (errors + warnings + 0.5*info) / max(1, elements*IssueDensity) * 100
//
// rounded and floored at 0.
func Score(s Summary, elements int) int {
	weighted := float64(s.Errors) + float64(s.Warnings) + 0.5*float64(s.Info)
	if weighted == 0 {
		return 100
	}
	maxPossible := math.Max(1, float64(elements)*IssueDensity)
	score := math.Round(100 - weighted/maxPossible*100)
	return int(math.Max(0, math.Min(100, score)))
}

func isNil(n vnode.VisualNode) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// newIssue builds an issue anchored at entry i.
func newIssue(t *Tree, i int, check string, sev Severity, guideline, msg, suggestion string) Issue {
	return Issue{
		Severity:   sev,
		Node:       t.entries[i].Node,
		Selector:   t.Selector(i),
		Check:      check,
		Message:    msg,
		Guideline:  guideline,
		Suggestion: suggestion,
	}
}

// rootIssue builds an issue about the subtree as a whole.
func rootIssue(t *Tree, check string, sev Severity, guideline, msg, suggestion string) Issue {
	sel := ""
	if t.Len() > 0 && t.entries[0].Node == t.root {
		sel = t.Selector(0)
	}
	return Issue{
		Severity:   sev,
		Node:       t.root,
		Selector:   sel,
		Check:      check,
		Message:    msg,
		Guideline:  guideline,
		Suggestion: suggestion,
	}
}
