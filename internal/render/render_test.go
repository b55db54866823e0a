package render_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/render"
	"github.com/raysh454/folio-a11y/internal/testutil"
	"github.com/raysh454/folio-a11y/internal/vnode"
)

const page = `<!doctype html><html lang="en"><body>
<h1>Portfolio</h1><img src="me.png"><p style="color:#777777">caption</p>
</body></html>`

func TestListBackends(t *testing.T) {
	t.Parallel()
	assert.Subset(t, render.ListBackends(), []string{"chromedp", "rod", "static"})
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()
	r, err := render.New(render.Config{Backend: "netscape"}, nil)
	assert.ErrorIs(t, err, render.ErrUnknownBackend)
	assert.Nil(t, r)
}

func TestNew_DefaultsToStatic(t *testing.T) {
	t.Parallel()
	r, err := render.New(render.Config{}, &testutil.DummyLogger{})
	require.NoError(t, err)
	defer r.Close()
	assert.IsType(t, &render.StaticRenderer{}, r)
}

func TestStaticRenderer_HTTP(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	r := render.NewStaticRenderer(render.DefaultConfig(), nil, srv.Client())
	root, err := r.Render(context.Background(), srv.URL+"/")
	require.NoError(t, err)

	res, err := audit.RunAudit(root)
	require.NoError(t, err)
	assert.Equal(t, 1, countCheck(res, "images"))
	assert.Equal(t, 1, countCheck(res, "contrast"))

	_, err = r.Render(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, render.ErrBadStatus)
	assert.ErrorContains(t, err, "404")
}

func TestStaticRenderer_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

	r := render.NewStaticRenderer(render.DefaultConfig(), nil, nil)
	for _, target := range []string{path, "file://" + filepath.ToSlash(path)} {
		root, err := r.Render(context.Background(), target)
		require.NoError(t, err, target)
		assert.Equal(t, 5, vnode.CountElements(root), target)
	}

	missing := filepath.Join(t.TempDir(), "nope.html")
	_, err := r.Render(context.Background(), missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1, strings.Count(err.Error(), missing), err.Error())

	_, err = r.Render(context.Background(), "  ")
	assert.ErrorIs(t, err, render.ErrEmptyTarget)
}

func TestStaticRenderer_ContextCanceled(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := render.NewStaticRenderer(render.DefaultConfig(), nil, srv.Client()).Render(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocal(t *testing.T) {
	t.Parallel()
	cases := []struct {
		target string
		path   string
		local  bool
	}{
		{"/srv/site/index.html", "/srv/site/index.html", true},
		{"site/index.html", "site/index.html", true},
		{"file:///srv/site/index.html", "/srv/site/index.html", true},
		{"https://example.com/", "", false},
		{"http://localhost:8080/v1", "", false},
	}
	for _, tc := range cases {
		path, local := render.Local(tc.target)
		assert.Equal(t, tc.local, local, tc.target)
		assert.Equal(t, tc.path, path, tc.target)
	}
}

// Browser backends need a local Chrome; opt in with FOLIO_A11Y_BROWSER_TESTS=1.
func browserTest(t *testing.T, backend string) {
	t.Helper()
	if os.Getenv("FOLIO_A11Y_BROWSER_TESTS") == "" {
		t.Skip("set FOLIO_A11Y_BROWSER_TESTS=1 to run browser backends")
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	cfg := render.DefaultConfig()
	cfg.Backend = backend
	r, err := render.New(cfg, nil)
	if err != nil {
		t.Skipf("Skipping %s test (environment does not support it): %v", backend, err)
	}
	defer r.Close()

	root, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	res, err := audit.RunAudit(root)
	require.NoError(t, err)
	assert.Equal(t, 1, countCheck(res, "images"))
	assert.Equal(t, 1, countCheck(res, "contrast"))
}

func TestChromedpRenderer(t *testing.T) { browserTest(t, "chromedp") }

func TestRodRenderer(t *testing.T) { browserTest(t, "rod") }

func countCheck(res *audit.Result, check string) int {
	n := 0
	for _, is := range res.Issues() {
		if is.Check == check {
			n++
		}
	}
	return n
}
