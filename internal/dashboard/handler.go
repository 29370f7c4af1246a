package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/platform/httpx"
	"github.com/halocare/halocare-admin/internal/rbac"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

const requestTimeout = 5 * time.Second

// Summarizer provides the dashboard payload.
type Summarizer interface {
	Summary(ctx context.Context) (Summary, error)
}

// Handler serves the dashboard home page and its JSON twin.
type Handler struct {
	logger   *slog.Logger
	service  Summarizer
	renderer *admin.Renderer
	format   *view.Formatter
	rbac     rbac.Middleware
}

// NewHandler constructs the dashboard handler.
func NewHandler(logger *slog.Logger, service Summarizer, renderer *admin.Renderer, format *view.Formatter, rbac rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer, format: format, rbac: rbac}
}

// MountRoutes registers the dashboard endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	limiter := httprate.Limit(30, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), "Too many summary requests, slow down.")
		}),
	)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermDashboardView))
		r.Get("/", h.handlePage)
		r.With(limiter).Get("/dashboard/summary.json", h.handleJSON)
	})
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sum, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.Error("load dashboard", slog.Any("error", err))
		h.renderer.Render(w, r, httpx.StatusFor(err), "pages/dashboard.html", "Dashboard", PageData{Error: shared.UserSafeMessage(err)})
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "pages/dashboard.html", "Dashboard", NewPageData(sum, h.format))
}

func (h *Handler) handleJSON(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sum, err := h.service.Summary(ctx)
	if err != nil {
		h.logger.Error("load dashboard summary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func rateLimitKey(r *http.Request) (string, error) {
	if user, ok := shared.UserFromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(user.ID, 10), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
