package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/rbac"
	"github.com/halocare/halocare-admin/internal/shared"
)

// Resource is the backend collection a page edits. backend.Resource satisfies it.
type Resource[T any] interface {
	Name() string
	All(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload any) (T, error)
	Update(ctx context.Context, id string, payload any) (T, error)
	SetStatus(ctx context.Context, id, status string) (T, error)
	Remove(ctx context.Context, id string) error
}

// Invalidator drops cached aggregates after a mutation.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// Module is a mounted page as seen by the router and the CLI.
type Module interface {
	Name() string
	Title() string
	BasePath() string
	ViewPermission() string
	Mount(r chi.Router)
	Table(ctx context.Context, values url.Values) (Table, error)
}

// PageConfig describes one entity page.
type PageConfig[T any, F any] struct {
	Title    string
	Singular string
	BasePath string
	ViewPerm string
	EditPerm string

	Schema   *listing.Schema[T]
	Resource Resource[T]

	Columns       []Column[T]
	StatusOptions []Option
	Filters       []Filter
	DateLabel     string

	Fields  []Field
	Bind    func(url.Values) (F, FieldErrors)
	Values  func(T) url.Values
	Details func(T) []DetailRow
	Label   func(T) string

	Create bool
	Edit   bool
	Delete bool
}

// Deps are the collaborators shared by every page.
type Deps struct {
	Logger      *slog.Logger
	Renderer    *Renderer
	Store       listing.ViewStateStore
	Observer    listing.ReloadObserver
	Audit       shared.Auditor
	Invalidator Invalidator
	RBAC        rbac.Middleware
	Validator   *validator.Validate
	Defaults    map[string]listing.Query
}

// Page serves the list, detail and form screens of one collection.
type Page[T any, F any] struct {
	cfg    PageConfig[T, F]
	deps   Deps
	logger *slog.Logger

	mu          sync.Mutex
	controllers map[string]*scopedController[T]
}

// scopedController serializes the list requests of one scope so tabs of the
// same user do not interleave restore, apply and view.
type scopedController[T any] struct {
	mu sync.Mutex
	c  *listing.Controller[T]
}

// NewPage validates cfg and builds a Page.
func NewPage[T any, F any](cfg PageConfig[T, F], deps Deps) (*Page[T, F], error) {
	if cfg.Schema == nil || cfg.Resource == nil {
		return nil, errors.New("admin: page needs a schema and a resource")
	}
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("admin: page %s needs a base path", cfg.Schema.Page)
	}
	if (cfg.Create || cfg.Edit) && (cfg.Bind == nil || cfg.Values == nil) {
		return nil, fmt.Errorf("admin: page %s edits records but has no form binding", cfg.Schema.Page)
	}
	if cfg.Label == nil {
		cfg.Label = cfg.Schema.ID
	}
	if q, ok := deps.Defaults[cfg.Schema.Page]; ok {
		cfg.Schema.OverrideDefaults(q)
	}
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Audit == nil {
		deps.Audit = shared.NopAuditor{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Page[T, F]{
		cfg:         cfg,
		deps:        deps,
		logger:      logger.With(slog.String("page", cfg.Schema.Page)),
		controllers: make(map[string]*scopedController[T]),
	}, nil
}

// Name is the schema page key.
func (p *Page[T, F]) Name() string { return p.cfg.Schema.Page }

// Title is the page heading.
func (p *Page[T, F]) Title() string { return p.cfg.Title }

// BasePath is where the page is mounted.
func (p *Page[T, F]) BasePath() string { return p.cfg.BasePath }

// ViewPermission guards the read routes.
func (p *Page[T, F]) ViewPermission() string { return p.cfg.ViewPerm }

// Mount registers the page routes on r, which is expected to be scoped to BasePath.
func (p *Page[T, F]) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(p.deps.RBAC.RequireAny(p.cfg.ViewPerm))
		r.Get("/", p.list)
		r.Get("/view.json", p.viewJSON)
		r.Post("/reset", p.reset)
		r.Get("/{id}", p.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(p.deps.RBAC.RequireAny(p.cfg.EditPerm))
		if p.cfg.Create {
			r.Get("/new", p.newForm)
			r.Post("/", p.create)
		}
		if p.cfg.Edit {
			r.Get("/{id}/edit", p.editForm)
			r.Post("/{id}", p.update)
		}
		if p.cfg.Delete {
			r.Post("/{id}/delete", p.remove)
		}
		if len(p.cfg.StatusOptions) > 0 {
			r.Post("/{id}/status", p.setStatus)
		}
	})
}

// scoped returns the controller of one user, creating it on first use.
func (p *Page[T, F]) scoped(scope string) *scopedController[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sc, ok := p.controllers[scope]; ok {
		return sc
	}
	c, err := listing.NewController(listing.ControllerConfig[T]{
		Schema:   p.cfg.Schema,
		Source:   p.cfg.Resource,
		Store:    p.deps.Store,
		Scope:    scope,
		Notifier: FlashNotifier{},
		Observer: p.deps.Observer,
		Logger:   p.logger,
	})
	if err != nil {
		// Schema and source are checked by NewPage.
		panic(err)
	}
	sc := &scopedController[T]{c: c}
	p.controllers[scope] = sc
	return sc
}

// Table derives a page of the collection without touching persisted state.
func (p *Page[T, F]) Table(ctx context.Context, values url.Values) (Table, error) {
	c, err := listing.NewController(listing.ControllerConfig[T]{
		Schema:   p.cfg.Schema,
		Source:   p.cfg.Resource,
		Observer: p.deps.Observer,
		Logger:   p.logger,
	})
	if err != nil {
		return Table{}, err
	}
	if err := c.ApplyValues(ctx, values); err != nil {
		return Table{}, err
	}
	if err := c.Reload(ctx); err != nil {
		return Table{}, err
	}
	view := c.View(ctx)
	table := Table{Pagination: view.Pagination, Query: c.Query()}
	for _, col := range p.cfg.Columns {
		table.Headers = append(table.Headers, col.Label)
	}
	for _, item := range view.Items {
		row := make([]string, 0, len(p.cfg.Columns))
		for _, col := range p.cfg.Columns {
			row = append(row, col.Value(item))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// load runs one mount cycle: restore, apply submitted changes, reload, derive.
// loaded is a snapshot taken while the scope lock is held.
type loaded[T any] struct {
	Query   listing.Query
	View    listing.View[T]
	LastErr error
}

func (p *Page[T, F]) load(ctx context.Context, values url.Values) loaded[T] {
	sc := p.scoped(scopeOf(ctx))
	sc.mu.Lock()
	defer sc.mu.Unlock()
	c := sc.c
	c.Restore(ctx)
	if err := c.ApplyValues(ctx, values); err != nil {
		p.logger.Warn("persist list query", slog.Any("error", err))
	}
	if err := c.Reload(ctx); err != nil && !errors.Is(err, listing.ErrStaleReload) {
		p.logger.Debug("reload kept previous collection", slog.Any("error", err))
	}
	return loaded[T]{Query: c.Query(), View: c.View(ctx), LastErr: c.LastError()}
}

func (p *Page[T, F]) afterMutation(ctx context.Context, action, id string, meta map[string]any) {
	actor, _ := shared.UserFromContext(ctx)
	if err := p.deps.Audit.Record(ctx, shared.AuditLog{
		ActorID:  actor.ID,
		Action:   action,
		Entity:   p.cfg.Schema.Page,
		EntityID: id,
		Meta:     meta,
	}); err != nil {
		p.logger.Warn("audit record", slog.String("action", action), slog.String("id", id), slog.Any("error", err))
	}
	if p.deps.Invalidator != nil {
		if err := p.deps.Invalidator.Bump(ctx); err != nil {
			p.logger.Warn("invalidate dashboard cache", slog.Any("error", err))
		}
	}
}

func scopeOf(ctx context.Context) string {
	if user, ok := shared.UserFromContext(ctx); ok {
		return fmt.Sprint(user.ID)
	}
	return ""
}

var _ Module = (*Page[struct{}, struct{}])(nil)
