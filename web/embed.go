// Package web holds the embedded templates and static assets of the dashboard.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates
var templates embed.FS

//go:embed static
var static embed.FS

// TemplatePatterns are parsed in order: layouts, then partials, then pages.
var TemplatePatterns = []string{
	"templates/layouts/*.html",
	"templates/partials/*.html",
	"templates/pages/*.html",
}

// Templates returns the embedded template tree.
func Templates() fs.FS { return templates }

// Static returns the assets rooted at static/, so /static/css/app.css is css/app.css.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
