package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/config"
	"github.com/raysh454/folio-a11y/internal/htmltree"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/panel"
	"github.com/raysh454/folio-a11y/internal/registry"
	"github.com/raysh454/folio-a11y/internal/render"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

var (
	ErrEmptyHTML  = errors.New("html body is empty")
	ErrNoRegistry = errors.New("no page registry configured")
)

// Application is the shared runtime state behind the CLI and the API server.
// It owns the auditor, the page registry and one renderer per backend, all
// safe for concurrent use.
type Application struct {
	cfg      *config.Config
	logger   logging.Logger
	auditor  *audit.Auditor
	builder  *htmltree.Builder
	registry *registry.Registry
	db       *sql.DB

	newRenderer func(render.Config, logging.Logger) (render.Renderer, error)

	renderMu  sync.Mutex
	renderers map[string]render.Renderer

	jobsMu     sync.Mutex
	jobs       map[string]*Job
	jobCancels map[string]context.CancelFunc
	jobsWG     sync.WaitGroup
}

// Open builds an Application from cfg: the registry database lives under the
// storage root, renderers are started on first use.
func Open(cfg *config.Config, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	root, err := cfg.ExpandedStorageRoot()
	if err != nil {
		return nil, fmt.Errorf("expanding storage root path: %w", err)
	}
	db, err := registry.Open(filepath.Join(root, "registry.db"))
	if err != nil {
		return nil, err
	}
	reg, err := registry.NewRegistry(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating registry: %w", err)
	}

	a := NewApplication(cfg, logger, reg)
	a.db = db
	return a, nil
}

// NewApplication constructs an Application from already built parts. reg may
// be nil when no page registry is needed.
func NewApplication(cfg *config.Config, logger logging.Logger, reg *registry.Registry) *Application {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Application{
		cfg:         cfg,
		logger:      logger.With(logging.Field{Key: "component", Value: "app"}),
		auditor:     audit.New(audit.WithLogger(logger)),
		builder:     htmltree.NewBuilder(logger),
		registry:    reg,
		newRenderer: render.New,
		renderers:   make(map[string]render.Renderer),
	}
}

func (a *Application) Config() *config.Config       { return a.cfg }
func (a *Application) Logger() logging.Logger       { return a.logger }
func (a *Application) Auditor() *audit.Auditor      { return a.auditor }
func (a *Application) Registry() *registry.Registry { return a.registry }

// AuditHTML audits a static HTML document.
func (a *Application) AuditHTML(ctx context.Context, html string) (*audit.Result, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyHTML
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := a.builder.Parse(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return a.auditor.Run(root)
}

// AuditTarget renders target with backend (the configured default when
// empty) and audits the result.
func (a *Application) AuditTarget(ctx context.Context, target, backend string) (*audit.Result, error) {
	root, err := a.Render(ctx, target, backend)
	if err != nil {
		return nil, err
	}
	res, err := a.auditor.Run(root)
	if err != nil {
		return nil, err
	}
	a.logger.Info("audited target",
		logging.Field{Key: "target", Value: target},
		logging.Field{Key: "score", Value: res.Score()},
		logging.Field{Key: "issues", Value: res.Len()})
	return res, nil
}

// AuditPage audits a registered page with the backend stored for it.
func (a *Application) AuditPage(ctx context.Context, slug string) (*registry.Page, *audit.Result, error) {
	page, err := a.GetPage(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	res, err := a.AuditTarget(ctx, page.Target, page.Backend)
	if err != nil {
		return page, nil, err
	}
	return page, res, nil
}

// Render produces the tree for target.
func (a *Application) Render(ctx context.Context, target, backend string) (vnode.VisualNode, error) {
	r, err := a.rendererFor(backend)
	if err != nil {
		return nil, err
	}
	root, err := r.Render(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return root, nil
}

func (a *Application) rendererFor(backend string) (render.Renderer, error) {
	if backend == "" {
		backend = a.cfg.Render.Backend
	}
	a.renderMu.Lock()
	defer a.renderMu.Unlock()
	if r, ok := a.renderers[backend]; ok {
		return r, nil
	}
	cfg := a.cfg.Render
	cfg.Backend = backend
	r, err := a.newRenderer(cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.renderers[backend] = r
	return r, nil
}

// NewPanel returns a report panel that audits target on every refresh.
func (a *Application) NewPanel(target, backend string, hl panel.Highlighter) *panel.Panel {
	source := func(ctx context.Context) (vnode.VisualNode, error) {
		return a.Render(ctx, target, backend)
	}
	return panel.New(a.cfg.Panel, a.auditor, source, hl, a.logger)
}

// NewPagePanel is NewPanel for a registered page.
func (a *Application) NewPagePanel(ctx context.Context, slug string, hl panel.Highlighter) (*registry.Page, *panel.Panel, error) {
	page, err := a.GetPage(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	return page, a.NewPanel(page.Target, page.Backend, hl), nil
}

// Registry pass-throughs.

func (a *Application) AddPage(ctx context.Context, slug, target, backend, description string) (*registry.Page, error) {
	if a.registry == nil {
		return nil, ErrNoRegistry
	}
	if backend != "" && !knownBackend(backend) {
		return nil, fmt.Errorf("%w: %s", render.ErrUnknownBackend, backend)
	}
	return a.registry.AddPage(ctx, slug, target, backend, description)
}

func (a *Application) GetPage(ctx context.Context, slug string) (*registry.Page, error) {
	if a.registry == nil {
		return nil, ErrNoRegistry
	}
	return a.registry.GetPage(ctx, slug)
}

func (a *Application) ListPages(ctx context.Context) ([]registry.Page, error) {
	if a.registry == nil {
		return nil, ErrNoRegistry
	}
	return a.registry.ListPages(ctx)
}

func (a *Application) RemovePage(ctx context.Context, slug string) error {
	if a.registry == nil {
		return ErrNoRegistry
	}
	return a.registry.RemovePage(ctx, slug)
}

func knownBackend(name string) bool {
	for _, b := range render.ListBackends() {
		if b == name {
			return true
		}
	}
	return false
}

// Close cancels running jobs, then releases renderers and the registry.
func (a *Application) Close() error {
	a.jobsMu.Lock()
	for _, cancel := range a.jobCancels {
		cancel()
	}
	a.jobsMu.Unlock()
	a.jobsWG.Wait()

	var errs []error
	a.renderMu.Lock()
	for name, r := range a.renderers {
		if err := r.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s renderer: %w", name, err))
		}
		delete(a.renderers, name)
	}
	a.renderMu.Unlock()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing registry: %w", err))
		}
		a.db = nil
	}
	return errors.Join(errs...)
}
