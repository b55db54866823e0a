package server

import (
	"time"

	"github.com/raysh454/folio-a11y/internal/config"
	"github.com/raysh454/folio-a11y/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// ReadTimeout bounds reading a request. Zero means 15s.
	ReadTimeout time.Duration

	Logger logging.Logger
}

// ConfigFrom picks the server settings out of the runtime configuration.
func ConfigFrom(cfg *config.Config, logger logging.Logger) Config {
	return Config{
		ListenAddr:  cfg.Server.ListenAddr,
		ReadTimeout: cfg.Server.ReadTimeout,
		Logger:      logger,
	}
}
