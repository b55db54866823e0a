// Package registry stores the pages a team audits regularly: a slug, the
// target to render and the preferred backend. Audit results are never
// stored.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/raysh454/folio-a11y/internal/logging"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageExists   = errors.New("page slug already registered")
)

// Page is a registered audit target.
type Page struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Target      string `json:"target"`
	Backend     string `json:"backend,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// Registry manages registered pages in SQLite.
type Registry struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (creating if needed) the SQLite database at path. ":memory:"
// gives a private in-memory database.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure registry dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry pragmas: %w", err)
	}
	return db, nil
}

// NewRegistry returns a Registry and runs migrations from schema.sql.
func NewRegistry(db *sql.DB, logger logging.Logger) (*Registry, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	return &Registry{db: db, logger: logger.With(logging.Field{Key: "component", Value: "registry"})}, nil
}

// normalizeSlug makes a slug safe and simple.
func normalizeSlug(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}

// slugFromTarget derives a slug from the last meaningful part of a target.
func slugFromTarget(target string) string {
	t := strings.TrimSuffix(strings.TrimSpace(target), "/")
	for _, p := range []string{"https://", "http://", "file://"} {
		t = strings.TrimPrefix(t, p)
	}
	t = strings.NewReplacer("/", "-", ":", "-").Replace(t)
	if s := normalizeSlug(t); s != "" {
		return s
	}
	return uuid.New().String()[:8]
}

// AddPage registers a target. An empty slug is derived from the target.
func (r *Registry) AddPage(ctx context.Context, slug, target, backend, description string) (*Page, error) {
	target, err := CanonicalTarget(target)
	if err != nil {
		return nil, err
	}
	if slug = normalizeSlug(slug); slug == "" {
		slug = slugFromTarget(target)
	}

	p := &Page{
		ID:          uuid.New().String(),
		Slug:        slug,
		Target:      target,
		Backend:     strings.ToLower(strings.TrimSpace(backend)),
		Description: description,
		CreatedAt:   time.Now().Unix(),
	}

	if _, err := r.GetPage(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrPageExists, slug)
	} else if !errors.Is(err, ErrPageNotFound) {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pages (id, slug, target, backend, description, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Target, p.Backend, p.Description, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert page: %w", err)
	}
	r.logger.Info("page registered", logging.Field{Key: "slug", Value: p.Slug}, logging.Field{Key: "target", Value: p.Target})
	return p, nil
}

// GetPage resolves a page by slug or by id.
func (r *Registry) GetPage(ctx context.Context, identifier string) (*Page, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, slug, target, backend, description, created_at
         FROM pages
         WHERE slug = ? OR id = ?
         LIMIT 1`,
		normalizeSlug(identifier), strings.TrimSpace(identifier),
	)
	var p Page
	if err := row.Scan(&p.ID, &p.Slug, &p.Target, &p.Backend, &p.Description, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPages returns every page, oldest first.
func (r *Registry) ListPages(ctx context.Context) ([]Page, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, target, backend, description, created_at
         FROM pages
         ORDER BY created_at ASC, slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Page{}
	for rows.Next() {
		var p Page
		if err := rows.Scan(&p.ID, &p.Slug, &p.Target, &p.Backend, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RemovePage deletes a page by slug or id.
func (r *Registry) RemovePage(ctx context.Context, identifier string) error {
	p, err := r.GetPage(ctx, identifier)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, p.ID); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	r.logger.Info("page removed", logging.Field{Key: "slug", Value: p.Slug})
	return nil
}
