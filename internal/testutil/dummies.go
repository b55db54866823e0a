// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// Snapshot returns copies of the recorded messages, safe to read while the
// logger is still in use.
func (l *DummyLogger) Snapshot() (errors, warns, infos, debugs []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Errors...), append([]string(nil), l.Warns...),
		append([]string(nil), l.Infos...), append([]string(nil), l.Debugs...)
}

// ─── Renderer ──────────────────────────────────────────────────────────

// DummyRenderer implements render.Renderer over a fixed set of trees.
// Unknown targets fail; set Delay to simulate slow pages.
type DummyRenderer struct {
	Pages    map[string]vnode.VisualNode
	FailWith map[string]error
	Delay    time.Duration

	mu      sync.Mutex
	Targets []string
	Closed  bool
}

func (d *DummyRenderer) Render(ctx context.Context, target string) (vnode.VisualNode, error) {
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Targets = append(d.Targets, target)
	d.mu.Unlock()

	if err := d.FailWith[target]; err != nil {
		return nil, err
	}
	n, ok := d.Pages[target]
	if !ok {
		return nil, fmt.Errorf("dummy renderer: no page for %q", target)
	}
	return n, nil
}

func (d *DummyRenderer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}

// Calls returns how many times Render was invoked.
func (d *DummyRenderer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Targets)
}

// ─── Highlighter ───────────────────────────────────────────────────────

// DummyHighlighter records highlight and clear calls in order, keyed by
// selector.
type DummyHighlighter struct {
	mu     sync.Mutex
	Events []string
	Active map[string]bool
}

func (h *DummyHighlighter) Highlight(is audit.Issue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Active == nil {
		h.Active = map[string]bool{}
	}
	h.Active[is.Selector] = true
	h.Events = append(h.Events, "highlight:"+is.Selector)
}

func (h *DummyHighlighter) Clear(is audit.Issue) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.Active, is.Selector)
	h.Events = append(h.Events, "clear:"+is.Selector)
}

// ActiveCount returns the number of selectors currently highlighted.
func (h *DummyHighlighter) ActiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Active)
}

// EventLog returns a copy of the recorded events.
func (h *DummyHighlighter) EventLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.Events...)
}

// ─── Trees ─────────────────────────────────────────────────────────────

// AccessiblePage returns a small page that passes every check.
func AccessiblePage() *vnode.Element {
	ring := func(e *vnode.Element) *vnode.Element {
		return e.WithFocusStyle("outline-style", "solid").WithFocusStyle("outline-width", "2px")
	}
	return vnode.NewElement("main").
		WithStyle("color", "#000000").
		WithStyle("background-color", "#ffffff").
		WithText("Portfolio").
		Append(
			vnode.NewElement("h1").WithText("Jane Doe"),
			vnode.NewElement("label").WithAttr("for", "email").WithText("Email"),
			ring(vnode.NewElement("input").WithAttr("id", "email").WithBox(0, 0, 200, 44)),
			ring(vnode.NewElement("button").WithText("Send").WithBox(0, 0, 100, 44)),
		)
}

// BrokenPage returns a page with one contrast error, one image error and a
// missing h1.
func BrokenPage() *vnode.Element {
	return vnode.NewElement("main").Append(
		vnode.NewElement("h2").WithText("Projects"),
		vnode.NewElement("p").
			WithStyle("color", "#777777").
			WithStyle("background-color", "#ffffff").
			WithText("Selected work"),
		vnode.NewElement("img").WithAttr("src", "shot.png"),
	)
}
