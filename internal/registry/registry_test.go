package registry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/raysh454/folio-a11y/internal/registry"
	"github.com/raysh454/folio-a11y/internal/testutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := registry.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.NewRegistry(openTestDB(t), &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func TestRegistry_AddGetListRemove(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	ctx := context.Background()

	home, err := reg.AddPage(ctx, "Home Page", "http://localhost:8080/", "chromedp", "landing")
	if err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	if home.Slug != "home-page" {
		t.Fatalf("unexpected slug: %s", home.Slug)
	}
	if home.ID == "" || home.CreatedAt == 0 {
		t.Fatalf("page not populated: %+v", home)
	}

	if _, err := reg.AddPage(ctx, "", "https://example.com/work/", "", ""); err != nil {
		t.Fatalf("AddPage derived slug: %v", err)
	}

	byID, err := reg.GetPage(ctx, home.ID)
	if err != nil {
		t.Fatalf("GetPage by id: %v", err)
	}
	bySlug, err := reg.GetPage(ctx, "HOME-page")
	if err != nil {
		t.Fatalf("GetPage by slug: %v", err)
	}
	if *byID != *bySlug || byID.Backend != "chromedp" || byID.Target != "http://localhost:8080/" {
		t.Fatalf("lookups disagree: %+v vs %+v", byID, bySlug)
	}

	pages, err := reg.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages got %d", len(pages))
	}
	slugs := map[string]bool{pages[0].Slug: true, pages[1].Slug: true}
	if !slugs["example.com-work"] {
		t.Fatalf("derived slug missing: %v", slugs)
	}

	if err := reg.RemovePage(ctx, "home-page"); err != nil {
		t.Fatalf("RemovePage: %v", err)
	}
	if _, err := reg.GetPage(ctx, "home-page"); err != registry.ErrPageNotFound {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
	if err := reg.RemovePage(ctx, "home-page"); err != registry.ErrPageNotFound {
		t.Fatalf("expected ErrPageNotFound on second remove, got %v", err)
	}
}

func TestRegistry_Validation(t *testing.T) {
	t.Parallel()
	reg := newRegistry(t)
	ctx := context.Background()

	if _, err := reg.AddPage(ctx, "x", "  ", "", ""); err == nil {
		t.Fatal("expected error for empty target")
	}
	if _, err := reg.AddPage(ctx, "cv", "/srv/cv.html", "", ""); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	if _, err := reg.AddPage(ctx, "cv", "/srv/other.html", "", ""); err == nil {
		t.Fatal("expected duplicate slug error")
	}

	pages, err := reg.ListPages(ctx)
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page got %d", len(pages))
	}
}

func TestRegistry_EmptyList(t *testing.T) {
	t.Parallel()
	pages, err := newRegistry(t).ListPages(context.Background())
	if err != nil {
		t.Fatalf("ListPages: %v", err)
	}
	if pages == nil || len(pages) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", pages)
	}
}

func TestRegistry_FileDatabasePersists(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "registry.db")
	ctx := context.Background()

	db, err := registry.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	reg, err := registry.NewRegistry(db, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := reg.AddPage(ctx, "about", "http://localhost/about", "", ""); err != nil {
		t.Fatalf("AddPage: %v", err)
	}
	_ = db.Close()

	db, err = registry.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	reg, err = registry.NewRegistry(db, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, err := reg.GetPage(ctx, "about"); err != nil {
		t.Fatalf("GetPage after reopen: %v", err)
	}
}
