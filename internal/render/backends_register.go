package render

import (
	"net/http"

	"github.com/raysh454/folio-a11y/internal/logging"
)

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the static, chromedp and rod backends.
func RegisterDefaultBackends() {
	RegisterBackend("static", func(cfg Config, logger logging.Logger) (Renderer, error) {
		return NewStaticRenderer(cfg, logger, &http.Client{Timeout: cfg.Timeout}), nil
	})
	RegisterBackend("chromedp", func(cfg Config, logger logging.Logger) (Renderer, error) {
		return NewChromedpRenderer(cfg, logger)
	})
	RegisterBackend("rod", func(cfg Config, logger logging.Logger) (Renderer, error) {
		return NewRodRenderer(cfg, logger)
	})
}
