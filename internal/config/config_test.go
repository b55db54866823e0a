package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	t.Parallel()
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	src := `
server:
  listen_addr: "127.0.0.1:9000"
storage_root: /tmp/folio
render:
  backend: chromedp
  timeout: 45s
  idle_after: 250ms
logging:
  level: debug
  format: console
panel:
  highlight_for: 1500ms
  auto_run: false
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := DefaultConfig()
	want.Server.ListenAddr = "127.0.0.1:9000"
	want.StorageRoot = "/tmp/folio"
	want.Render.Backend = "chromedp"
	want.Render.Timeout = 45 * time.Second
	want.Render.IdleAfter = 250 * time.Millisecond
	want.Logging.Level = "debug"
	want.Logging.Format = "console"
	want.Panel.HighlightFor = 1500 * time.Millisecond
	want.Panel.AutoRun = false

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("render: [1, 2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_A11Y_BACKEND", "rod")
	t.Setenv("FOLIO_A11Y_LOG_LEVEL", "warn")
	t.Setenv("FOLIO_A11Y_HEADLESS", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Render.Backend != "rod" || cfg.Logging.Level != "warn" || cfg.Render.Headless {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Parallel()
	env := map[string]string{
		"FOLIO_A11Y_LISTEN_ADDR":       ":9999",
		"FOLIO_A11Y_RENDER_TIMEOUT":    "5s",
		"FOLIO_A11Y_HIGHLIGHT_FOR":     "2s",
		"FOLIO_A11Y_BATCH_CONCURRENCY": "8",
	}
	cfg := DefaultConfig()
	if err := cfg.applyEnvOverrides(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("applyEnvOverrides: %v", err)
	}
	if cfg.Server.ListenAddr != ":9999" || cfg.Render.Timeout != 5*time.Second ||
		cfg.Panel.HighlightFor != 2*time.Second || cfg.BatchConcurrency != 8 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	for key, bad := range map[string]string{
		"FOLIO_A11Y_RENDER_TIMEOUT":    "soon",
		"FOLIO_A11Y_HEADLESS":          "maybe",
		"FOLIO_A11Y_BATCH_CONCURRENCY": "many",
	} {
		cfg := DefaultConfig()
		err := cfg.applyEnvOverrides(func(k string) string {
			if k == key {
				return bad
			}
			return ""
		})
		if err == nil {
			t.Fatalf("%s=%q: expected error", key, bad)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty storage root", func(c *Config) { c.StorageRoot = " " }},
		{"zero concurrency", func(c *Config) { c.BatchConcurrency = 0 }},
		{"zero timeout", func(c *Config) { c.Render.Timeout = 0 }},
		{"negative highlight", func(c *Config) { c.Panel.HighlightFor = -time.Second }},
		{"unknown backend", func(c *Config) { c.Render.Backend = "lynx" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "folio.yaml")
	cfg := DefaultConfig()
	cfg.Render.Backend = "chromedp"
	cfg.Server.ListenAddr = ":7070"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandPath(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/folio")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "folio") {
		t.Fatalf("got %q", got)
	}
	if got, _ := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Fatalf("absolute path changed: %q", got)
	}
}
