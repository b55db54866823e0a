package render

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

// ChromedpRenderer renders pages in a shared headless Chrome through the
// DevTools protocol. Each Render call uses its own tab.
type ChromedpRenderer struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
	idleAfter     time.Duration
	logger        logging.Logger
}

func NewChromedpRenderer(cfg Config, logger logging.Logger) (*ChromedpRenderer, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BrowserPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	r := &ChromedpRenderer{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       orDefault(cfg.Timeout, DefaultConfig().Timeout),
		idleAfter:     orDefault(cfg.IdleAfter, DefaultConfig().IdleAfter),
		logger:        logger.With(logging.Field{Key: "component", Value: "chromedp_renderer"}),
	}
	r.logger.Debug("created chromedp renderer", logging.Field{Key: "idle_after", Value: r.idleAfter.String()})
	return r, nil
}

func (c *ChromedpRenderer) Render(ctx context.Context, target string) (vnode.VisualNode, error) {
	u, err := navigableURL(target)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()

	idle := waitNetworkIdle(tabCtx, c.idleAfter)
	if err := chromedp.Run(tabCtx, network.Enable(), chromedp.Navigate(u)); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", u, err)
	}
	idle.arm()

	select {
	case <-idle.done:
	case <-tabCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("wait for network idle on %s: %w", u, tabCtx.Err())
	}

	var raw string
	if err := chromedp.Run(tabCtx, chromedp.Evaluate("("+snapshotJS+")()", &raw)); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", u, err)
	}
	c.logger.Debug("page rendered", logging.Field{Key: "url", Value: u}, logging.Field{Key: "bytes", Value: len(raw)})
	return decode(raw)
}

func (c *ChromedpRenderer) Close() error {
	c.browserCancel()
	c.allocCancel()
	return nil
}

// idleWatcher signals once no request has been in flight for idleAfter.
type idleWatcher struct {
	done      chan struct{}
	active    int32
	idleAfter time.Duration

	mu    sync.Mutex
	timer *time.Timer
	armed bool
	once  sync.Once
}

func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) *idleWatcher {
	w := &idleWatcher{done: make(chan struct{}), idleAfter: idleAfter}
	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&w.active, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&w.active, -1) <= 0 {
				w.restart()
			}
		}
	})
	return w
}

// arm starts the idle timer once navigation has committed.
func (w *idleWatcher) arm() {
	w.mu.Lock()
	w.armed = true
	w.mu.Unlock()
	w.restart()
}

func (w *idleWatcher) restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.armed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.idleAfter, func() {
		if atomic.LoadInt32(&w.active) <= 0 {
			w.once.Do(func() { close(w.done) })
		}
	})
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
