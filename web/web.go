// Package web holds the HTML templates rendered by the server.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded template.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
