package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/platform/httpx"
	"github.com/halocare/halocare-admin/internal/rbac"
	"github.com/halocare/halocare-admin/internal/shared"
)

const paginationWindow = 5

type quietKey struct{}

// Quiet marks ctx so listing notifications are not turned into flashes.
func Quiet(ctx context.Context) context.Context {
	return context.WithValue(ctx, quietKey{}, true)
}

func isQuiet(ctx context.Context) bool {
	quiet, _ := ctx.Value(quietKey{}).(bool)
	return quiet
}

func (p *Page[T, F]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := p.load(ctx, r.URL.Query())
	data := p.listData(r, l.Query, l.View)
	if l.LastErr != nil && len(l.View.Items) > 0 {
		data.Error = "Showing the last loaded data."
	}
	p.deps.Renderer.Render(w, r, http.StatusOK, "pages/list.html", p.cfg.Title, data)
}

type viewResponse[T any] struct {
	Query listing.Query `json:"query"`
	listing.View[T]
	Error string `json:"error,omitempty"`
}

func (p *Page[T, F]) viewJSON(w http.ResponseWriter, r *http.Request) {
	ctx := Quiet(r.Context())
	l := p.load(ctx, r.URL.Query())
	resp := viewResponse[T]{Query: l.Query, View: l.View}
	if err := l.LastErr; err != nil {
		resp.Error = shared.UserSafeMessage(err)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (p *Page[T, F]) reset(w http.ResponseWriter, r *http.Request) {
	sc := p.scoped(scopeOf(r.Context()))
	sc.mu.Lock()
	err := sc.c.Reset(r.Context())
	sc.mu.Unlock()
	if err != nil {
		p.logger.Warn("reset list query", slog.Any("error", err))
		Flash(r, shared.FlashError, "Could not reset the view. Please try again.")
	}
	http.Redirect(w, r, p.cfg.BasePath, http.StatusSeeOther)
}

func (p *Page[T, F]) show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := p.cfg.Resource.Get(r.Context(), id)
	if err != nil {
		p.failRedirect(w, r, "load", id, err, p.cfg.BasePath)
		return
	}
	data := DetailData{
		Singular:      p.cfg.Singular,
		BasePath:      p.cfg.BasePath,
		ID:            id,
		Label:         p.cfg.Label(item),
		StatusOptions: p.cfg.StatusOptions,
	}
	if rbac.Can(r.Context(), p.cfg.EditPerm) {
		data.CanUpdate = p.cfg.Edit
		data.CanDelete = p.cfg.Delete
		data.CanChangeStatus = len(p.cfg.StatusOptions) > 0
	}
	if p.cfg.Details != nil {
		data.Rows = p.cfg.Details(item)
	}
	if p.cfg.Schema.Status != nil {
		data.Status = p.cfg.Schema.Status(item)
	}
	p.deps.Renderer.Render(w, r, http.StatusOK, "pages/detail.html", p.cfg.Singular, data)
}

func (p *Page[T, F]) newForm(w http.ResponseWriter, r *http.Request) {
	p.renderForm(w, r, http.StatusOK, "", url.Values{}, nil, "")
}

func (p *Page[T, F]) editForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := p.cfg.Resource.Get(r.Context(), id)
	if err != nil {
		p.failRedirect(w, r, "load", id, err, p.cfg.BasePath)
		return
	}
	p.renderForm(w, r, http.StatusOK, id, p.cfg.Values(item), nil, "")
}

func (p *Page[T, F]) create(w http.ResponseWriter, r *http.Request) {
	form, ok := p.bind(w, r, "")
	if !ok {
		return
	}
	item, err := p.cfg.Resource.Create(r.Context(), form)
	if err != nil {
		p.logger.Warn("create record", slog.Any("error", err))
		p.renderForm(w, r, statusForFormError(err), "", r.PostForm, nil, shared.UserSafeMessage(err))
		return
	}
	id := p.cfg.Schema.ID(item)
	p.afterMutation(r.Context(), shared.ActionCreate, id, nil)
	Flash(r, shared.FlashSuccess, fmt.Sprintf("%s %q created.", p.cfg.Singular, p.cfg.Label(item)))
	http.Redirect(w, r, p.cfg.BasePath, http.StatusSeeOther)
}

func (p *Page[T, F]) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := p.cfg.Resource.Get(r.Context(), id); err != nil {
		p.failRedirect(w, r, "load", id, err, p.cfg.BasePath)
		return
	}
	form, ok := p.bind(w, r, id)
	if !ok {
		return
	}
	item, err := p.cfg.Resource.Update(r.Context(), id, form)
	if err != nil {
		p.logger.Warn("update record", slog.String("id", id), slog.Any("error", err))
		p.renderForm(w, r, statusForFormError(err), id, r.PostForm, nil, shared.UserSafeMessage(err))
		return
	}
	p.afterMutation(r.Context(), shared.ActionUpdate, id, nil)
	Flash(r, shared.FlashSuccess, fmt.Sprintf("%s %q updated.", p.cfg.Singular, p.cfg.Label(item)))
	http.Redirect(w, r, p.cfg.BasePath+"/"+url.PathEscape(id), http.StatusSeeOther)
}

func (p *Page[T, F]) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := p.cfg.Resource.Remove(r.Context(), id); err != nil {
		p.failRedirect(w, r, "delete", id, err, p.cfg.BasePath+"/"+url.PathEscape(id))
		return
	}
	p.afterMutation(r.Context(), shared.ActionDelete, id, nil)
	Flash(r, shared.FlashSuccess, fmt.Sprintf("%s deleted.", p.cfg.Singular))
	http.Redirect(w, r, p.cfg.BasePath, http.StatusSeeOther)
}

func (p *Page[T, F]) setStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	detail := p.cfg.BasePath + "/" + url.PathEscape(id)
	status := r.PostFormValue(listing.KeyStatus)
	if !slices.ContainsFunc(p.cfg.StatusOptions, func(o Option) bool { return o.Value == status }) {
		Flash(r, shared.FlashError, fmt.Sprintf("%q is not a valid status.", status))
		http.Redirect(w, r, detail, http.StatusSeeOther)
		return
	}
	if _, err := p.cfg.Resource.Get(r.Context(), id); err != nil {
		p.failRedirect(w, r, "load", id, err, detail)
		return
	}
	item, err := p.cfg.Resource.SetStatus(r.Context(), id, status)
	if err != nil {
		p.failRedirect(w, r, "set status", id, err, detail)
		return
	}
	p.afterMutation(r.Context(), shared.ActionStatus, id, map[string]any{"status": status})
	Flash(r, shared.FlashSuccess, fmt.Sprintf("%s %q is now %s.", p.cfg.Singular, p.cfg.Label(item), status))
	http.Redirect(w, r, detail, http.StatusSeeOther)
}

// bind parses and validates the posted form. On failure it renders the form
// again and returns ok=false.
func (p *Page[T, F]) bind(w http.ResponseWriter, r *http.Request, id string) (F, bool) {
	var zero F
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return zero, false
	}
	form, errs := p.cfg.Bind(r.PostForm)
	if errs == nil {
		errs = FieldErrors{}
	}
	if err := Validate(p.deps.Validator, form, errs); err != nil {
		p.logger.Error("validate form", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return zero, false
	}
	if len(errs) > 0 {
		p.renderForm(w, r, http.StatusUnprocessableEntity, id, r.PostForm, errs, "Some fields are invalid. Please review the form.")
		return zero, false
	}
	return form, true
}

func (p *Page[T, F]) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, values url.Values, errs FieldErrors, message string) {
	data := FormData{
		Singular: p.cfg.Singular,
		BasePath: p.cfg.BasePath,
		Action:   p.cfg.BasePath,
		ID:       id,
		IsEdit:   id != "",
		Error:    message,
	}
	if data.IsEdit {
		data.Action = p.cfg.BasePath + "/" + url.PathEscape(id)
	}
	for _, f := range p.cfg.Fields {
		data.Fields = append(data.Fields, FieldView{Field: f, Value: values.Get(f.Name), Error: errs[f.Name]})
	}
	p.deps.Renderer.Render(w, r, status, "pages/form.html", p.cfg.Singular, data)
}

func (p *Page[T, F]) failRedirect(w http.ResponseWriter, r *http.Request, op, id string, err error, target string) {
	p.logger.Warn(op+" record", slog.String("id", id), slog.Any("error", err))
	Flash(r, shared.FlashError, shared.UserSafeMessage(err))
	if errors.Is(err, httpx.ErrNotFound) {
		target = p.cfg.BasePath
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func statusForFormError(err error) int {
	if errors.Is(err, httpx.ErrValidation) || errors.Is(err, httpx.ErrDuplicate) {
		return http.StatusUnprocessableEntity
	}
	return httpx.StatusFor(err)
}

func (p *Page[T, F]) listData(r *http.Request, q listing.Query, view listing.View[T]) *ListData {
	s := p.cfg.Schema
	data := &ListData{
		Title:         p.cfg.Title,
		Singular:      p.cfg.Singular,
		BasePath:      p.cfg.BasePath,
		Query:         q,
		Pagination:    view.Pagination,
		Window:        view.Window(paginationWindow),
		PageSizes:     s.PageSizeOptions(),
		SearchEnabled: len(s.Search) > 0,
		DateEnabled:   s.Date != nil,
		DateLabel:     p.cfg.DateLabel,
		CanCreate:     p.cfg.Create && rbac.Can(r.Context(), p.cfg.EditPerm),
		CanEdit:       p.cfg.Edit && rbac.Can(r.Context(), p.cfg.EditPerm),
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		data.CSRFToken = p.deps.Renderer.CSRF.EnsureToken(sess)
	}
	if s.Status != nil && len(p.cfg.StatusOptions) > 0 {
		data.StatusOptions = append([]Option{{Value: listing.All, Label: "All statuses"}}, p.cfg.StatusOptions...)
	}
	for _, f := range p.cfg.Filters {
		data.Filters = append(data.Filters, FilterView{
			Key:      f.Key,
			Label:    f.Label,
			Options:  append([]Option{{Value: listing.All, Label: "All " + f.Label}}, f.Options...),
			Selected: q.Filter(f.Key),
		})
	}
	for _, col := range p.cfg.Columns {
		cv := ColumnView{Label: col.Label}
		if col.SortKey != "" {
			dir := listing.SortAsc
			if q.SortBy == col.SortKey {
				if q.SortDir == listing.SortAsc {
					cv.Indicator = "▲"
					dir = listing.SortDesc
				} else {
					cv.Indicator = "▼"
				}
			}
			cv.SortURL = p.cfg.BasePath + "?" + url.Values{
				listing.KeySortBy:  {col.SortKey},
				listing.KeySortDir: {string(dir)},
			}.Encode()
		}
		data.Columns = append(data.Columns, cv)
	}
	for _, item := range view.Items {
		row := RowView{ID: s.ID(item)}
		for _, col := range p.cfg.Columns {
			row.Cells = append(row.Cells, CellView{Text: col.Value(item), Badge: col.Badge})
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
