package server

//go:generate swag init -g internal/server/server.go -o internal/server/docs

// @title folio-a11y API
// @version 0.1
// @description Accessibility audits for portfolio pages: one-shot audits, rendered reports, a page registry, batch jobs and a live report panel over websockets.
// @contact.name folio-a11y Maintainers
// @contact.url https://github.com/raysh454/folio-a11y
// @BasePath /
