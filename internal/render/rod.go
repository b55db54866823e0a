package render

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

// RodRenderer is the browser backend built on go-rod. It launches (or
// downloads) its own Chromium.
type RodRenderer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	cfg      Config
	logger   logging.Logger
}

func NewRodRenderer(cfg Config, logger logging.Logger) (*RodRenderer, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	l := launcher.New().Headless(cfg.Headless)
	if cfg.BrowserPath != "" {
		l = l.Bin(cfg.BrowserPath)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	cfg.Timeout = orDefault(cfg.Timeout, DefaultConfig().Timeout)
	cfg.IdleAfter = orDefault(cfg.IdleAfter, DefaultConfig().IdleAfter)
	r := &RodRenderer{
		launcher: l,
		browser:  browser,
		cfg:      cfg,
		logger:   logger.With(logging.Field{Key: "component", Value: "rod_renderer"}),
	}
	r.logger.Debug("created rod renderer", logging.Field{Key: "control_url", Value: controlURL})
	return r, nil
}

func (r *RodRenderer) Render(ctx context.Context, target string) (vnode.VisualNode, error) {
	u, err := navigableURL(target)
	if err != nil {
		return nil, err
	}

	page, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer page.Close()
	page = page.Timeout(r.cfg.Timeout)

	waitIdle := page.WaitRequestIdle(r.cfg.IdleAfter, nil, nil, nil)
	if err := page.Navigate(u); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", u, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait for load on %s: %w", u, err)
	}
	waitIdle()

	res, err := page.Eval(snapshotJS)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", u, err)
	}
	raw := res.Value.Str()
	r.logger.Debug("page rendered", logging.Field{Key: "url", Value: u}, logging.Field{Key: "bytes", Value: len(raw)})
	return decode(raw)
}

func (r *RodRenderer) Close() error {
	err := r.browser.Close()
	r.launcher.Kill()
	return err
}
