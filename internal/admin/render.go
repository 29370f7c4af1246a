// Package admin turns a listing schema, a backend resource and a form binding
// into the HTML pages managers use to browse and edit one collection.
package admin

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/halocare/halocare-admin/internal/rbac"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

type navEntry struct {
	item view.NavItem
	perm string
}

// Renderer fills the layout data every page shares and renders templates.
type Renderer struct {
	Templates *view.Engine
	CSRF      *shared.CSRFManager
	Logger    *slog.Logger

	mu  sync.RWMutex
	nav []navEntry
}

// AddNav registers a sidebar entry visible to managers holding perm.
func (rd *Renderer) AddNav(label, path, perm string) {
	rd.mu.Lock()
	rd.nav = append(rd.nav, navEntry{item: view.NavItem{Label: label, Path: path}, perm: perm})
	rd.mu.Unlock()
}

// Data builds TemplateData for r. Pending flashes are consumed.
func (rd *Renderer) Data(r *http.Request, title string, data any) view.TemplateData {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	td := view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if sess != nil {
		td.CSRFToken = rd.CSRF.EnsureToken(sess)
		td.Flashes = sess.PopFlashes()
	}
	if user, ok := shared.UserFromContext(ctx); ok {
		td.User = &user
		rd.mu.RLock()
		for _, entry := range rd.nav {
			if entry.perm == "" || rbac.Can(ctx, entry.perm) {
				td.Nav = append(td.Nav, entry.item)
			}
		}
		rd.mu.RUnlock()
	}
	return td
}

// Render writes the named template with the given status.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	if err := rd.Templates.RenderStatus(w, status, name, rd.Data(r, title, data)); err != nil {
		rd.logger().Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Error renders the error page.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.Render(w, r, status, "pages/error.html", http.StatusText(status), message)
}

// Flash queues a flash message on the request session.
func Flash(r *http.Request, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(kind, message)
	}
}

func (rd *Renderer) logger() *slog.Logger {
	if rd.Logger == nil {
		return slog.Default()
	}
	return rd.Logger
}
