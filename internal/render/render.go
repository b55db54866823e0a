// Package render produces vnode trees from pages. The static backend parses
// fetched HTML; the browser backends load the page in headless Chrome and
// capture computed styles, focus styles and layout boxes with an injected
// snapshot script.
package render

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/raysh454/folio-a11y/internal/vnode"
)

var (
	ErrUnknownBackend = errors.New("render: backend not registered")
	ErrEmptyTarget    = errors.New("render: empty target")
	ErrBadStatus      = errors.New("render: unexpected http status")
)

//go:embed snapshot.js
var snapshotJS string

// Renderer turns a target (URL or file path) into a tree ready for auditing.
type Renderer interface {
	Render(ctx context.Context, target string) (vnode.VisualNode, error)
	Close() error
}

// Config configures the renderer backends.
type Config struct {
	Backend      string        `yaml:"backend"`
	Timeout      time.Duration `yaml:"timeout"`
	IdleAfter    time.Duration `yaml:"idle_after"`
	Headless     bool          `yaml:"headless"`
	BrowserPath  string        `yaml:"browser_path"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

func DefaultConfig() Config {
	return Config{
		Backend:      "static",
		Timeout:      30 * time.Second,
		IdleAfter:    500 * time.Millisecond,
		Headless:     true,
		MaxBodyBytes: 10 << 20,
	}
}

// Local reports whether target names a file rather than a remote page, and
// returns its path.
func Local(target string) (string, bool) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// "C:\..." parses with a one-letter scheme.
		return target, true
	}
	if u.Scheme == "file" {
		return u.Path, true
	}
	return "", false
}

// navigableURL converts bare paths to file:// URLs for the browser backends.
func navigableURL(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", ErrEmptyTarget
	}
	path, local := Local(target)
	if !local {
		return target, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// decode turns the snapshot script output into a tree.
func decode(raw string) (vnode.VisualNode, error) {
	root, err := vnode.DecodeSnapshot([]byte(raw))
	if err != nil {
		return nil, err
	}
	return root, nil
}
