package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/raysh454/folio-a11y/internal/htmltree"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

// StaticRenderer fetches HTML over net/http, or reads it from disk, and
// builds the tree without executing scripts.
type StaticRenderer struct {
	client  *http.Client
	builder *htmltree.Builder
	maxBody int64
	logger  logging.Logger
}

func NewStaticRenderer(cfg Config, logger logging.Logger, httpClient *http.Client) *StaticRenderer {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultConfig().Timeout}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultConfig().MaxBodyBytes
	}
	componentLogger := logger.With(logging.Field{Key: "component", Value: "static_renderer"})
	return &StaticRenderer{
		client:  httpClient,
		builder: htmltree.NewBuilder(componentLogger),
		maxBody: maxBody,
		logger:  componentLogger,
	}
}

func (s *StaticRenderer) Render(ctx context.Context, target string) (vnode.VisualNode, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, ErrEmptyTarget
	}
	if path, local := Local(target); local {
		return s.renderFile(path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	s.logger.Debug("fetching page", logging.Field{Key: "url", Value: target})
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("http request failed",
			logging.Field{Key: "url", Value: target},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("fetch %s: %w %d", target, ErrBadStatus, resp.StatusCode)
	}
	return s.builder.Parse(io.LimitReader(resp.Body, s.maxBody))
}

func (s *StaticRenderer) renderFile(path string) (vnode.VisualNode, error) {
	f, err := os.Open(path)
	if err != nil {
		// *fs.PathError already names the path
		return nil, err
	}
	defer f.Close()
	s.logger.Debug("reading page from disk", logging.Field{Key: "path", Value: path})
	return s.builder.Parse(io.LimitReader(f, s.maxBody))
}

func (s *StaticRenderer) Close() error { return nil }
