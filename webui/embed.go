// Package webui exposes the embedded dashboard filesystem.
// It MUST live at the module root to embed the sibling "web/" directory.
// internal/server/embed.go imports this package to render the dashboard.
package webui

import "embed"

// FS is the embedded web directory tree: page templates at web/*.html and
// stylesheets under web/static.
//
//go:embed web
var FS embed.FS
