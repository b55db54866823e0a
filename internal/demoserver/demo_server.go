package demoserver

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DemoServer serves a small portfolio site whose pages can be switched
// between a defective and a remediated version at runtime, so audits can be
// compared before and after a fix.
type DemoServer struct {
	cfg      Config
	pages    map[string]PageDefinition
	versions map[string]int // path -> current version
	mu       sync.RWMutex
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	if cfg.InitialVersion < VersionDefective {
		cfg.InitialVersion = VersionDefective
	}
	pageMap := make(map[string]PageDefinition)
	versions := make(map[string]int)

	for _, p := range GetAllPages() {
		pageMap[p.Path] = p
		versions[p.Path] = cfg.InitialVersion
	}

	return &DemoServer{
		cfg:      cfg,
		pages:    pageMap,
		versions: versions,
	}
}

// Handler returns the site and its control endpoints.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	for path := range s.pages {
		p := path
		pattern := p
		if p == "/" {
			pattern = "/{$}"
		}
		mux.HandleFunc(pattern, s.pageHandler(p))
	}

	// Control panel for version switching
	mux.HandleFunc("/demo/control", s.controlPanelHandler)
	mux.HandleFunc("/demo/set-version", s.setVersionHandler)
	mux.HandleFunc("/demo/get-versions", s.getVersionsHandler)
	mux.HandleFunc("/demo/fix-all", s.fixAllHandler)
	mux.HandleFunc("/demo/reset", s.resetVersionsHandler)

	mux.HandleFunc("/static/", s.staticHandler)
	return mux
}

// Start serves on the configured port until the listener fails.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo portfolio starting on http://localhost%s\n", addr)
	fmt.Printf("Control panel at http://localhost%s/demo/control\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// SetVersion switches one page, or every page when path is empty. It reports
// whether anything changed.
func (s *DemoServer) SetVersion(path string, version int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for p, def := range s.pages {
		if path != "" && p != path {
			continue
		}
		if _, ok := def.Versions[version]; !ok {
			continue
		}
		s.versions[p] = version
		changed = true
	}
	return changed
}

// Version returns the version currently served at path.
func (s *DemoServer) Version(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[path]
}

// pageHandler returns a handler for a specific page path.
func (s *DemoServer) pageHandler(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		pageDef, ok := s.pages[path]
		version := s.versions[path]
		s.mu.RUnlock()

		if !ok {
			http.NotFound(w, r)
			return
		}

		pageVersion, ok := pageDef.Versions[version]
		if !ok {
			// Fall back to the closest earlier version
			for v := version; v >= VersionDefective; v-- {
				if pv, exists := pageDef.Versions[v]; exists {
					pageVersion = pv
					break
				}
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Demo-Version", strconv.Itoa(version))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(pageVersion.HTML))
	}
}

// staticHandler serves placeholder assets.
func (s *DemoServer) staticHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(`// Demo static file: ` + r.URL.Path + "\n"))
	default:
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="320" height="200"><rect width="320" height="200" fill="#d8dee9"/></svg>`))
	}
}

type pageInfo struct {
	Path              string   `json:"path"`
	Description       string   `json:"description"`
	CurrentVersion    int      `json:"current_version"`
	AvailableVersions []int    `json:"available_versions"`
	Notes             []string `json:"notes"`
}

func (s *DemoServer) pageInfos() []pageInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pages []pageInfo
	for path, def := range s.pages {
		var versions []int
		for v := range def.Versions {
			versions = append(versions, v)
		}
		sort.Ints(versions)
		cur := s.versions[path]
		pages = append(pages, pageInfo{
			Path:              path,
			Description:       def.Description,
			CurrentVersion:    cur,
			AvailableVersions: versions,
			Notes:             def.Versions[cur].Notes,
		})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Path < pages[j].Path })
	return pages
}

var controlTemplate = template.Must(template.New("control").Parse(controlPanelHTML))

// controlPanelHandler serves the control panel for version management.
func (s *DemoServer) controlPanelHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = controlTemplate.Execute(w, struct{ Pages []pageInfo }{Pages: s.pageInfos()})
}

// setVersionHandler sets the version for a specific page.
func (s *DemoServer) setVersionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := r.FormValue("path")
	version, err := strconv.Atoi(r.FormValue("version"))
	if err != nil {
		http.Error(w, "Invalid version number", http.StatusBadRequest)
		return
	}
	if path == "" || !s.SetVersion(path, version) {
		http.Error(w, "Unknown page or version", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"success": true,
		"path":    path,
		"version": version,
	})
}

// getVersionsHandler returns the current versions of all pages.
func (s *DemoServer) getVersionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.pageInfos())
}

// fixAllHandler switches every page to the remediated version.
func (s *DemoServer) fixAllHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.SetVersion("", VersionRemediated)
	writeJSON(w, map[string]any{
		"success": true,
		"message": "All pages remediated",
	})
}

// resetVersionsHandler resets all pages to the defective version.
func (s *DemoServer) resetVersionsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.SetVersion("", VersionDefective)
	writeJSON(w, map[string]any{
		"success": true,
		"message": "All pages reset to v1",
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
