package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/raysh454/folio-a11y/internal/logging"
)

// BackendConstructor constructs a Renderer given the config and logger.
type BackendConstructor func(cfg Config, logger logging.Logger) (Renderer, error)

var (
	mu       sync.RWMutex
	registry = map[string]BackendConstructor{}
)

// RegisterBackend registers a named backend constructor. Name is lower-cased
// internally. Calling RegisterBackend with the same name overwrites the previous
// constructor.
func RegisterBackend(name string, ctor BackendConstructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(name)] = ctor
}

// New constructs the configured backend. An empty backend name selects
// "static".
func New(cfg Config, logger logging.Logger) (Renderer, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "static"
	}

	mu.RLock()
	ctor, ok := registry[backend]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, backend, strings.Join(ListBackends(), ", "))
	}

	r, err := ctor(cfg, logger.With(logging.Field{Key: "backend", Value: backend}))
	if err != nil {
		return nil, fmt.Errorf("construct renderer backend %q: %w", backend, err)
	}
	if r == nil {
		return nil, errors.New("renderer constructor returned nil")
	}
	return r, nil
}

// ListBackends returns the registered backend names, sorted.
func ListBackends() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
