package server

import "github.com/raysh454/folio-a11y/internal/audit"

// AuditRequest carries either an HTML document or a target to render.
type AuditRequest struct {
	HTML    string `json:"html,omitempty" example:"<html lang=\"en\"><body><h1>Jane Doe</h1></body></html>"`
	Target  string `json:"target,omitempty" example:"http://localhost:9999/"`
	Backend string `json:"backend,omitempty" example:"static"`
}

// CreatePageRequest registers a page to audit.
type CreatePageRequest struct {
	Slug        string `json:"slug" example:"home"`
	Target      string `json:"target" example:"http://localhost:9999/"`
	Backend     string `json:"backend" example:"chromedp"`
	Description string `json:"description" example:"Portfolio landing page"`
}

// StartBatchRequest starts a background batch audit.
type StartBatchRequest struct {
	Targets     []string `json:"targets" example:"[\"http://localhost:9999/\",\"http://localhost:9999/projects\"]"`
	Backend     string   `json:"backend" example:"static"`
	Concurrency int      `json:"concurrency" example:"4"`
}

// PageAuditResponse is the audit of a registered page.
type PageAuditResponse struct {
	Slug   string        `json:"slug" example:"home"`
	Target string        `json:"target" example:"http://localhost:9999/"`
	Result *audit.Result `json:"result"`
}

// PanelCommand is a client message on the panel websocket.
type PanelCommand struct {
	Action string `json:"action" example:"select"`
	Index  int    `json:"index" example:"0"`
}

// PanelMessage is pushed to panel websocket clients.
type PanelMessage struct {
	Type     string        `json:"type" example:"report"`
	Result   *audit.Result `json:"result,omitempty"`
	Changes  string        `json:"changes,omitempty"`
	Selector string        `json:"selector,omitempty" example:"main > p"`
	Issue    *audit.Issue  `json:"issue,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// HealthResponse reports liveness and the available render backends.
type HealthResponse struct {
	Status   string   `json:"status" example:"ok"`
	Backends []string `json:"backends" example:"[\"chromedp\",\"rod\",\"static\"]"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error" example:"not found"`
}
