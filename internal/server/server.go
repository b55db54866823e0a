package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/raysh454/folio-a11y/internal/app"
	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/logging"
	"github.com/raysh454/folio-a11y/internal/panel"
	"github.com/raysh454/folio-a11y/internal/registry"
	"github.com/raysh454/folio-a11y/internal/render"
	"github.com/raysh454/folio-a11y/internal/report"

	_ "github.com/raysh454/folio-a11y/internal/server/docs" // swagger spec
)

// maxLoggedBody caps how much of a request body goes into the request log.
const maxLoggedBody = 2048

// Server is the HTTP + WebSocket API surface for folio-a11y.
type Server struct {
	cfg      Config
	app      *app.Application
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer wires the routes around an Application. The Application stays
// owned by the caller.
func NewServer(cfg Config, application *app.Application) (*Server, error) {
	if application == nil {
		return nil, errors.New("server: application is nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("server")
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:    cfg,
		app:    application,
		router: r,
		logger: logger.With(logging.Field{Key: "component", Value: "server"}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict to the configured panel origins once the panel UI ships separately
				return true
			},
		},
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/audits", s.optionsHandler("POST"))
	r.Options("/audits/report", s.optionsHandler("POST"))
	r.Options("/pages", s.optionsHandler("GET, POST"))
	r.Options("/pages/{slug}", s.optionsHandler("GET, DELETE"))
	r.Options("/pages/{slug}/audit", s.optionsHandler("POST"))
	r.Options("/jobs", s.optionsHandler("GET, POST"))
	r.Options("/jobs/{jobID}", s.optionsHandler("GET, DELETE"))

	r.Get("/healthz", s.handleHealth)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// One-shot audits
	r.Post("/audits", s.handleAudit)
	r.Post("/audits/report", s.handleAuditReport)

	// Pages
	r.Post("/pages", s.handleCreatePage)
	r.Get("/pages", s.handleListPages)
	r.Get("/pages/{slug}", s.handleGetPage)
	r.Delete("/pages/{slug}", s.handleDeletePage)
	r.Post("/pages/{slug}/audit", s.handleAuditPage)

	// Batch jobs over REST
	r.Post("/jobs", s.handleStartBatchJob)
	r.Get("/jobs", s.handleListJobs)
	r.Get("/jobs/{jobID}", s.handleGetJob)
	r.Delete("/jobs/{jobID}", s.handleCancelJob)

	// WebSockets
	r.Get("/ws/jobs", s.handleBatchWS)
	r.Get("/ws/pages/{slug}/audit", s.handlePanelWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch) {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			logged := bodyBytes
			if len(logged) > maxLoggedBody {
				logged = logged[:maxLoggedBody]
			}
			fields = append(fields, logging.Field{Key: "body", Value: string(logged)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15 * time.Second
	}
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// ErrLocalTarget is returned when an API client names something other than
// an http(s) page. Files are only audited from the command line.
var ErrLocalTarget = errors.New("only http and https targets are accepted")

// remoteTargets rejects file paths and file:// URLs.
func remoteTargets(targets ...string) error {
	for _, t := range targets {
		u, err := url.Parse(strings.TrimSpace(t))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrLocalTarget, t)
		}
	}
	return nil
}

// statusFor maps application errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, registry.ErrPageNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrPageExists):
		return http.StatusConflict
	case errors.Is(err, render.ErrUnknownBackend),
		errors.Is(err, render.ErrEmptyTarget),
		errors.Is(err, registry.ErrEmptyTarget),
		errors.Is(err, registry.ErrMissingHost),
		errors.Is(err, ErrLocalTarget),
		errors.Is(err, app.ErrEmptyHTML),
		errors.Is(err, app.ErrNoTargets):
		return http.StatusBadRequest
	case errors.Is(err, audit.ErrNilRoot), errors.Is(err, audit.ErrNotRenderable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrBadStatus):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// --- HTTP handlers ---

// handleHealth reports liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Backends: render.ListBackends()})
}

// Audits

func decodeAuditRequest(r *http.Request) (AuditRequest, error) {
	var body AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, errors.New("invalid JSON")
	}
	if (body.HTML == "") == (body.Target == "") {
		return body, errors.New("exactly one of html or target is required")
	}
	if body.Target != "" {
		if err := remoteTargets(body.Target); err != nil {
			return body, err
		}
	}
	return body, nil
}

func (s *Server) runAudit(ctx context.Context, body AuditRequest) (*audit.Result, error) {
	if body.HTML != "" {
		return s.app.AuditHTML(ctx, body.HTML)
	}
	return s.app.AuditTarget(ctx, body.Target, body.Backend)
}

// handleAudit audits an HTML document or a target.
// @Summary Audit a document or a page
// @Tags audits
// @Accept json
// @Produce json
// @Param request body AuditRequest true "HTML or target"
// @Success 200 {object} audit.Result
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /audits [post]
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	body, err := decodeAuditRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.runAudit(r.Context(), body)
	if err != nil {
		s.logger.Warn("running audit", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("audit complete", logging.Field{Key: "audit_id", Value: res.ID()}, logging.Field{Key: "score", Value: res.Score()})
	writeJSON(w, http.StatusOK, res)
}

// handleAuditReport audits and renders a report.
// @Summary Audit and render a report
// @Tags audits
// @Accept json
// @Produce plain,html,json
// @Param request body AuditRequest true "HTML or target"
// @Param format query string false "text, html or json" default(text)
// @Success 200 {string} string "rendered report"
// @Failure 400 {object} ErrorResponse
// @Router /audits/report [post]
func (s *Server) handleAuditReport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "text"
	}
	if format != "text" && format != "html" && format != "json" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}
	body, err := decodeAuditRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.runAudit(r.Context(), body)
	if err != nil {
		s.logger.Warn("running audit", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}

	var buf bytes.Buffer
	switch format {
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = report.WriteHTML(&buf, res, body.Target)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		err = report.WriteJSON(&buf, res)
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = report.WriteText(&buf, res, report.TextOptions{NoColor: true})
	}
	if err != nil {
		w.Header().Del("Content-Type")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Pages

// handleCreatePage registers a page.
// @Summary Register a page
// @Tags pages
// @Accept json
// @Produce json
// @Param request body CreatePageRequest true "Page"
// @Success 201 {object} registry.Page
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /pages [post]
func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	var body CreatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}
	if err := remoteTargets(body.Target); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := s.app.AddPage(r.Context(), body.Slug, body.Target, body.Backend, body.Description)
	if err != nil {
		s.logger.Warn("creating page", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("created page", logging.Field{Key: "slug", Value: p.Slug})
	writeJSON(w, http.StatusCreated, p)
}

// handleListPages lists registered pages.
// @Summary List pages
// @Tags pages
// @Produce json
// @Success 200 {array} registry.Page
// @Router /pages [get]
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	ps, err := s.app.ListPages(r.Context())
	if err != nil {
		s.logger.Warn("listing pages", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("listed pages", logging.Field{Key: "count", Value: len(ps)})
	writeJSON(w, http.StatusOK, ps)
}

// handleGetPage returns one page.
// @Summary Get a page
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug or id"
// @Success 200 {object} registry.Page
// @Failure 404 {object} ErrorResponse
// @Router /pages/{slug} [get]
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.app.GetPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleDeletePage removes a page.
// @Summary Remove a page
// @Tags pages
// @Param slug path string true "Page slug or id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /pages/{slug} [delete]
func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := s.app.RemovePage(r.Context(), slug); err != nil {
		s.logger.Warn("removing page", logging.Field{Key: "slug", Value: slug}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("removed page", logging.Field{Key: "slug", Value: slug})
	w.WriteHeader(http.StatusNoContent)
}

// handleAuditPage audits a registered page.
// @Summary Audit a registered page
// @Tags pages
// @Produce json
// @Param slug path string true "Page slug or id"
// @Success 200 {object} PageAuditResponse
// @Failure 404 {object} ErrorResponse
// @Router /pages/{slug}/audit [post]
func (s *Server) handleAuditPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	page, res, err := s.app.AuditPage(r.Context(), slug)
	if err != nil {
		s.logger.Warn("auditing page", logging.Field{Key: "slug", Value: slug}, logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("audited page", logging.Field{Key: "slug", Value: page.Slug}, logging.Field{Key: "score", Value: res.Score()})
	writeJSON(w, http.StatusOK, PageAuditResponse{Slug: page.Slug, Target: page.Target, Result: res})
}

// Jobs (REST)

// handleStartBatchJob starts a batch audit.
// @Summary Start a batch audit
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body StartBatchRequest true "Targets"
// @Success 202 {object} app.Job
// @Failure 400 {object} ErrorResponse
// @Router /jobs [post]
func (s *Server) handleStartBatchJob(w http.ResponseWriter, r *http.Request) {
	var body StartBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := remoteTargets(body.Targets...); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The job outlives the request.
	job, err := s.app.StartBatchJob(context.Background(), body.Targets, body.Backend, body.Concurrency)
	if err != nil {
		s.logger.Warn("starting batch job", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.logger.Info("started batch job", logging.Field{Key: "job_id", Value: job.ID}, logging.Field{Key: "targets", Value: len(body.Targets)})
	writeJSON(w, http.StatusAccepted, job)
}

// handleGetJob returns a job snapshot.
// @Summary Get a job
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job id"
// @Success 200 {object} app.Job
// @Failure 404 {object} ErrorResponse
// @Router /jobs/{jobID} [get]
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.app.GetJob(jobID)
	if job == nil {
		s.logger.Warn("getting job: not found", logging.Field{Key: "job_id", Value: jobID})
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// handleCancelJob cancels a running job.
// @Summary Cancel a job
// @Tags jobs
// @Param jobID path string true "Job id"
// @Success 204
// @Router /jobs/{jobID} [delete]
func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	canceled := s.app.CancelJob(jobID)
	s.logger.Info("cancel job", logging.Field{Key: "job_id", Value: jobID}, logging.Field{Key: "was_running", Value: canceled})
	w.WriteHeader(http.StatusNoContent)
}

// handleListJobs lists jobs.
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Success 200 {array} app.Job
// @Router /jobs [get]
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := s.app.ListJobs()
	s.logger.Info("listed jobs", logging.Field{Key: "count", Value: len(jobs)})
	writeJSON(w, http.StatusOK, jobs)
}

// WebSockets

// handleBatchWS starts a batch job and streams its events.
// @Summary Stream a batch audit
// @Tags jobs
// @Param target query []string true "Targets" collectionFormat(multi)
// @Param backend query string false "Render backend"
// @Param concurrency query int false "Parallel audits"
// @Router /ws/jobs [get]
func (s *Server) handleBatchWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	targets := q["target"]
	concurrency, _ := strconv.Atoi(q.Get("concurrency"))
	if err := remoteTargets(targets...); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	job, err := s.app.StartBatchJob(r.Context(), targets, q.Get("backend"), concurrency)
	if err != nil {
		s.logger.Warn("starting batch job", logging.Field{Key: "error", Value: err.Error()})
		_ = conn.WriteJSON(ErrorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("started batch job", logging.Field{Key: "job_id", Value: job.ID})
	_ = conn.WriteJSON(job)

	for ev := range job.Events {
		if err := conn.WriteJSON(ev); err != nil {
			// Assume client disconnected; cancel job
			s.app.CancelJob(job.ID)
			return
		}
	}
}

// wsPeer serializes writes to one websocket connection. Highlight expiry
// fires from a timer goroutine while the handler loop is also writing.
type wsPeer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (p *wsPeer) send(msg PanelMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.WriteJSON(msg)
}

// Highlight implements panel.Highlighter by telling the client which node
// to outline.
func (p *wsPeer) Highlight(is audit.Issue) {
	p.send(PanelMessage{Type: "highlight", Selector: is.Selector, Issue: &is})
}

func (p *wsPeer) Clear(is audit.Issue) {
	p.send(PanelMessage{Type: "clear", Selector: is.Selector})
}

// handlePanelWS drives a report panel for a registered page. The first
// report is pushed on connect; clients then send {"action":"refresh"},
// {"action":"select","index":i} or {"action":"clear"}.
// @Summary Live report panel for a page
// @Tags pages
// @Param slug path string true "Page slug or id"
// @Router /ws/pages/{slug}/audit [get]
func (s *Server) handlePanelWS(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	ctx := r.Context()
	peer := &wsPeer{conn: conn}

	_, p, err := s.app.NewPagePanel(ctx, slug, peer)
	if err != nil {
		s.logger.Warn("opening panel", logging.Field{Key: "slug", Value: slug}, logging.Field{Key: "error", Value: err.Error()})
		peer.send(PanelMessage{Type: "error", Error: err.Error()})
		return
	}
	defer p.Close()

	s.pushReport(ctx, peer, p, p.AutoRun)

	for {
		var cmd PanelCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("panel connection closed", logging.Field{Key: "slug", Value: slug}, logging.Field{Key: "error", Value: err.Error()})
			}
			return
		}

		switch cmd.Action {
		case "refresh":
			s.pushReport(ctx, peer, p, p.Refresh)
		case "select":
			if _, err := p.Select(cmd.Index); err != nil {
				peer.send(PanelMessage{Type: "error", Error: err.Error()})
			}
		case "clear":
			p.ClearHighlight()
		default:
			peer.send(PanelMessage{Type: "error", Error: fmt.Sprintf("unknown action %q", cmd.Action)})
		}
	}
}

func (s *Server) pushReport(ctx context.Context, peer *wsPeer, p *panel.Panel, run func(context.Context) (*audit.Result, error)) {
	res, err := run(ctx)
	if err != nil {
		s.logger.Warn("panel audit", logging.Field{Key: "error", Value: err.Error()})
		peer.send(PanelMessage{Type: "error", Error: err.Error()})
		return
	}
	if res == nil {
		return
	}
	peer.send(PanelMessage{Type: "report", Result: res, Changes: p.Changes()})
}
