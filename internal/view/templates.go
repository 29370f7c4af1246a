package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
	format    *Formatter
}

// NavItem is one entry of the sidebar.
type NavItem struct {
	Label string
	Path  string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flashes     []shared.FlashMessage
	CurrentPath string
	User        *shared.CurrentUser
	Nav         []NavItem
	Data        any
}

// Option configures the Engine.
type Option func(*Engine)

// WithFormatter replaces the default formatter.
func WithFormatter(f *Formatter) Option {
	return func(e *Engine) {
		if f != nil {
			e.format = f
		}
	}
}

// NewEngine parses the embedded templates.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{format: NewFormatter("id", time.Local)}
	for _, opt := range opts {
		opt(e)
	}
	funcMap := template.FuncMap{
		"formatDate":     e.format.DateTime,
		"formatDay":      e.format.Date,
		"ago":            e.format.Ago,
		"money":          func(d decimal.Decimal) string { return e.format.Money(d) },
		"number":         e.format.Number,
		"decimal":        e.format.Decimal,
		"isActivePrefix": isActivePrefix,
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates(), web.TemplatePatterns...)
	if err != nil {
		return nil, err
	}
	e.templates = tpl
	return e, nil
}

// Formatter exposes the formatter shared with handlers.
func (e *Engine) Formatter() *Formatter { return e.format }

// Render executes a named template with TemplateData. The page is rendered to a
// buffer first so a template failure never leaves a half-written response.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func isActivePrefix(current, prefix string) bool {
	if prefix == "/" {
		return current == "/"
	}
	return current == prefix || strings.HasPrefix(current, strings.TrimSuffix(prefix, "/")+"/")
}
