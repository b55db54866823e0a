// Package panel is the report consumer: it runs audits on demand, keeps the
// current and previous reports, and highlights the node of a selected issue
// for a limited time.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/report"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

var (
	// ErrAuditFailed wraps tooling failures: the tree could not be obtained
	// or the auditor rejected it. Issues found on the page are never errors.
	ErrAuditFailed = errors.New("audit failed")
	ErrNoReport    = errors.New("panel: no report yet")
	ErrNoIssue     = errors.New("panel: issue index out of range")
	ErrClosed      = errors.New("panel: closed")
)

// Highlighter shows and hides the on-page highlight of an issue's node.
type Highlighter interface {
	Highlight(is audit.Issue)
	Clear(is audit.Issue)
}

// RootSource produces the tree to audit, for instance by rendering a page.
type RootSource func(ctx context.Context) (vnode.VisualNode, error)

type Config struct {
	HighlightFor time.Duration `yaml:"highlight_for"`
	AutoRun      bool          `yaml:"auto_run"`
}

func DefaultConfig() Config {
	return Config{HighlightFor: 3 * time.Second, AutoRun: true}
}

type nopHighlighter struct{}

func (nopHighlighter) Highlight(audit.Issue) {}
func (nopHighlighter) Clear(audit.Issue)     {}

// Panel holds the state of one report view. Panels are independent of each
// other; the one-shot initial pass is tracked per instance.
type Panel struct {
	auditor *audit.Auditor
	source  RootSource
	hl      Highlighter
	cfg     Config
	logger  logging.Logger

	initial    sync.Once
	initialRes *audit.Result
	initialErr error

	mu       sync.Mutex
	current  *audit.Result
	previous *audit.Result
	lit      *audit.Issue
	litGen   uint64
	timer    *time.Timer
	closed   bool
}

func New(cfg Config, auditor *audit.Auditor, source RootSource, hl Highlighter, logger logging.Logger) *Panel {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if auditor == nil {
		auditor = audit.New(audit.WithLogger(logger))
	}
	if hl == nil {
		hl = nopHighlighter{}
	}
	if cfg.HighlightFor <= 0 {
		cfg.HighlightFor = DefaultConfig().HighlightFor
	}
	return &Panel{
		auditor: auditor,
		source:  source,
		hl:      hl,
		cfg:     cfg,
		logger:  logger.With(logging.Field{Key: "component", Value: "panel"}),
	}
}

// AutoRun performs the initial audit the first time it is called. Later
// calls return the outcome of that first pass without auditing again. It is
// a no-op returning (nil, nil) when the panel is configured without
// AutoRun.
func (p *Panel) AutoRun(ctx context.Context) (*audit.Result, error) {
	if !p.cfg.AutoRun {
		return nil, nil
	}
	p.initial.Do(func() {
		p.initialRes, p.initialErr = p.Refresh(ctx)
	})
	return p.initialRes, p.initialErr
}

// Refresh audits the tree from the source and replaces the current report.
// The previous report is kept for Changes.
func (p *Panel) Refresh(ctx context.Context) (*audit.Result, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if p.source == nil {
		return nil, fmt.Errorf("%w: no source configured", ErrAuditFailed)
	}

	root, err := p.source(ctx)
	if err != nil {
		p.logger.Warn("could not obtain tree", logging.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("%w: %w", ErrAuditFailed, err)
	}
	res, err := p.auditor.Run(root)
	if err != nil {
		p.logger.Warn("auditor rejected tree", logging.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("%w: %w", ErrAuditFailed, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	p.clearLocked()
	p.previous, p.current = p.current, res
	p.logger.Info("report refreshed",
		logging.Field{Key: "id", Value: res.ID()},
		logging.Field{Key: "score", Value: res.Score()},
		logging.Field{Key: "issues", Value: res.Len()})
	return res, nil
}

// Current returns the latest report, or nil before the first audit.
func (p *Panel) Current() *audit.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Previous returns the report replaced by the latest refresh.
func (p *Panel) Previous() *audit.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previous
}

// Select highlights the node of issue i of the current report. Any earlier
// highlight is cleared first; the new one clears itself after the configured
// duration.
func (p *Panel) Select(i int) (audit.Issue, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return audit.Issue{}, ErrClosed
	}
	if p.current == nil {
		return audit.Issue{}, ErrNoReport
	}
	is, ok := p.current.Issue(i)
	if !ok {
		return audit.Issue{}, fmt.Errorf("%w: %d of %d", ErrNoIssue, i, p.current.Len())
	}

	p.clearLocked()
	p.hl.Highlight(is)
	p.lit = &is
	p.litGen++
	gen := p.litGen
	p.timer = time.AfterFunc(p.cfg.HighlightFor, func() { p.expire(gen) })
	return is, nil
}

// ClearHighlight removes the active highlight, if any.
func (p *Panel) ClearHighlight() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
}

// Highlighted returns the issue currently highlighted.
func (p *Panel) Highlighted() (audit.Issue, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lit == nil {
		return audit.Issue{}, false
	}
	return *p.lit, true
}

func (p *Panel) expire(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.litGen {
		return
	}
	p.clearLocked()
}

func (p *Panel) clearLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.lit != nil {
		p.hl.Clear(*p.lit)
		p.lit = nil
	}
}

// Changes describes how the current report differs from the previous one.
func (p *Panel) Changes() string {
	p.mu.Lock()
	prev, cur := p.previous, p.current
	p.mu.Unlock()
	return report.Diff(prev, cur)
}

// Close clears any highlight and stops pending timers. Closing twice is
// harmless.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clearLocked()
	p.closed = true
}
