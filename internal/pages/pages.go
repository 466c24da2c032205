// Package pages holds the server-rendered HTML for the marketing site and the
// account screens. Forms post JSON to the API; the shared script in the
// layout shows the returned dialog or follows the redirect.
package pages

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Load parses every template. Each page is addressed by its file name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}
