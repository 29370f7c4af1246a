package listing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"sync"
	"time"
)

// ErrStaleReload is returned by a Reload whose response was superseded by a
// later Reload on the same controller.
var ErrStaleReload = errors.New("listing: stale reload discarded")

// Source fetches the full collection behind a list page.
type Source[T any] interface {
	All(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

// All implements Source.
func (f SourceFunc[T]) All(ctx context.Context) ([]T, error) { return f(ctx) }

// Notifier raises a user-visible notification for the request carried by ctx.
type Notifier interface {
	Notify(ctx context.Context, kind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, kind, message string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, kind, message string) { f(ctx, kind, message) }

// ReloadObserver receives the outcome of every reload.
type ReloadObserver interface {
	ObserveReload(page, result string, elapsed time.Duration)
}

// FetchState is the state of the collection fetch.
type FetchState int

const (
	StateIdle FetchState = iota
	StateLoading
)

func (s FetchState) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "idle"
}

// Reload results reported to ReloadObserver.
const (
	ReloadOK    = "ok"
	ReloadError = "error"
	ReloadStale = "stale"
)

// ControllerConfig wires a Controller.
type ControllerConfig[T any] struct {
	Schema   *Schema[T]
	Source   Source[T]
	Store    ViewStateStore
	Scope    string
	Notifier Notifier
	Observer ReloadObserver
	Logger   *slog.Logger
}

// Controller holds the collection and query of one list page. It is safe for
// concurrent use; overlapping reloads apply only the latest request.
type Controller[T any] struct {
	schema   *Schema[T]
	source   Source[T]
	store    ViewStateStore
	key      string
	notifier Notifier
	observer ReloadObserver
	logger   *slog.Logger

	mu       sync.Mutex
	query    Query
	items    []T
	state    FetchState
	lastErr  error
	ticket   uint64
	inflight int
}

// NewController constructs a Controller holding the schema defaults.
func NewController[T any](cfg ControllerConfig[T]) (*Controller[T], error) {
	if cfg.Schema == nil {
		return nil, errors.New("listing: schema required")
	}
	if cfg.Source == nil {
		return nil, errors.New("listing: source required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller[T]{
		schema:   cfg.Schema,
		source:   cfg.Source,
		store:    cfg.Store,
		key:      StateKey(cfg.Scope, cfg.Schema.Page),
		notifier: cfg.Notifier,
		observer: cfg.Observer,
		logger:   logger,
		query:    cfg.Schema.DefaultQuery(),
	}, nil
}

// Key is the store key of this controller's state.
func (c *Controller[T]) Key() string { return c.key }

// Schema returns the page schema.
func (c *Controller[T]) Schema() *Schema[T] { return c.schema }

// Restore loads the persisted query. Missing or unreadable state falls back to the
// schema defaults without surfacing an error.
func (c *Controller[T]) Restore(ctx context.Context) Query {
	q := c.schema.DefaultQuery()
	if c.store != nil {
		stored, ok, err := c.store.Get(ctx, c.key)
		switch {
		case err != nil:
			c.logger.Debug("restore view state", slog.String("key", c.key), slog.Any("error", err))
		case ok:
			q = c.schema.Normalize(stored)
		}
	}
	c.mu.Lock()
	c.query = q
	c.mu.Unlock()
	return q.Clone()
}

// Query returns a copy of the current query.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Clone()
}

// SetFilter updates one key and persists the result.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) error {
	c.mu.Lock()
	c.query = c.schema.SetFilter(c.query, key, value)
	q := c.query.Clone()
	c.mu.Unlock()
	return c.persist(ctx, q)
}

// ApplyValues applies submitted form values (see Schema.ApplyValues) and persists
// the result once.
func (c *Controller[T]) ApplyValues(ctx context.Context, values url.Values) error {
	c.mu.Lock()
	before := c.query
	c.query = c.schema.ApplyValues(c.query, values)
	q := c.query.Clone()
	changed := !equalQuery(before, q)
	c.mu.Unlock()
	if !changed {
		return nil
	}
	return c.persist(ctx, q)
}

// Persist writes the current query to the store.
func (c *Controller[T]) Persist(ctx context.Context) error {
	return c.persist(ctx, c.Query())
}

// Reset drops the persisted query and returns to the defaults.
func (c *Controller[T]) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.query = c.schema.DefaultQuery()
	c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.Delete(ctx, c.key)
}

// Reload replaces the collection with a fresh fetch from the source. On failure
// the previous collection is kept and the notifier is told. A reload overtaken by
// a later one returns ErrStaleReload and changes nothing.
func (c *Controller[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.ticket++
	ticket := c.ticket
	c.inflight++
	c.state = StateLoading
	c.mu.Unlock()

	start := time.Now()
	items, err := c.source.All(ctx)
	elapsed := time.Since(start)

	c.mu.Lock()
	c.inflight--
	if c.inflight == 0 {
		c.state = StateIdle
	}
	if ticket != c.ticket {
		c.mu.Unlock()
		c.observe(ReloadStale, elapsed)
		return ErrStaleReload
	}
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		c.observe(ReloadError, elapsed)
		c.logger.Warn("reload list", slog.String("page", c.schema.Page), slog.Any("error", err))
		if c.notifier != nil {
			c.notifier.Notify(ctx, "error", fmt.Sprintf("Failed to load %s. Please try again.", c.schema.Page))
		}
		return fmt.Errorf("listing: reload %s: %w", c.schema.Page, err)
	}
	c.items = items
	c.lastErr = nil
	c.mu.Unlock()
	c.observe(ReloadOK, elapsed)
	return nil
}

// View derives the current page. When the collection shrank under the stored
// page, the clamped page is stored and persisted.
func (c *Controller[T]) View(ctx context.Context) View[T] {
	c.mu.Lock()
	view := c.schema.Derive(c.items, c.query)
	clamped := view.Page != c.query.Page
	if clamped {
		c.query.Page = view.Page
	}
	q := c.query.Clone()
	c.mu.Unlock()
	if clamped {
		if err := c.persist(ctx, q); err != nil {
			c.logger.Warn("persist clamped page", slog.String("key", c.key), slog.Any("error", err))
		}
	}
	return view
}

// Items returns a copy of the loaded collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// State reports whether a fetch is in flight.
func (c *Controller[T]) State() FetchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError returns the error of the latest applied reload, nil after a success.
func (c *Controller[T]) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller[T]) persist(ctx context.Context, q Query) error {
	if c.store == nil {
		return nil
	}
	if err := c.store.Set(ctx, c.key, q); err != nil {
		return fmt.Errorf("listing: persist %s: %w", c.key, err)
	}
	return nil
}

func (c *Controller[T]) observe(result string, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveReload(c.schema.Page, result, elapsed)
	}
}

func equalQuery(a, b Query) bool {
	if a.Page != b.Page || a.PageSize != b.PageSize || a.Search != b.Search || a.Status != b.Status ||
		a.DateFrom != b.DateFrom || a.DateTo != b.DateTo || a.SortBy != b.SortBy || a.SortDir != b.SortDir {
		return false
	}
	return maps.Equal(a.Filters, b.Filters)
}
