package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/platform/httpx"
	"github.com/halocare/halocare-admin/internal/shared"
)

// LoginPath is where anonymous managers are sent.
const LoginPath = "/auth/login"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	renderer  *admin.Renderer
	sessions  *shared.SessionManager
	audit     shared.Auditor
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, renderer *admin.Renderer, sessions *shared.SessionManager, audit shared.Auditor) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if audit == nil {
		audit = shared.NopAuditor{}
	}
	return &Handler{
		logger:    logger,
		service:   service,
		renderer:  renderer,
		sessions:  sessions,
		audit:     audit,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.With(httprate.LimitByIP(10, time.Minute)).Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Next     string
}

type loginPageData struct {
	Form   loginForm
	Errors map[string]string
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		if _, ok := sess.User(); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}
	data := loginPageData{Form: loginForm{Next: safeNext(r.URL.Query().Get("next"))}}
	h.renderer.Render(w, r, http.StatusOK, "pages/login.html", "Sign in", data)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Next:     safeNext(r.PostFormValue("next")),
	}
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				errs[fieldErr.Field()] = loginMessage(fieldErr)
			}
		}
	}

	if len(errs) == 0 {
		user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
		switch {
		case err == nil:
			sess.SignIn(user.Current())
			sess.AddFlash(shared.FlashSuccess, "Welcome back, "+displayName(user)+".")
			if err := h.audit.Record(r.Context(), shared.AuditLog{
				ActorID:  user.ID,
				Action:   shared.ActionLogin,
				Entity:   "users",
				EntityID: user.Email,
				Meta:     map[string]any{"ip": r.RemoteAddr},
			}); err != nil {
				h.logger.Warn("audit login", slog.Any("error", err))
			}
			target := form.Next
			if target == "" {
				target = "/"
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		case errors.Is(err, shared.ErrInvalidCredentials):
			errs["general"] = "Invalid email or password."
		default:
			h.logger.Error("authenticate", slog.Any("error", err))
			errs["general"] = "Sign in is unavailable right now. Please try again."
		}
	}

	form.Password = ""
	h.renderer.Render(w, r, http.StatusBadRequest, "pages/login.html", "Sign in", loginPageData{Form: form, Errors: errs})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// RequireUser puts the signed-in manager into the request context. Anonymous
// page requests are redirected to the login form; JSON requests get a 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess != nil {
			if user, ok := sess.User(); ok {
				next.ServeHTTP(w, r.WithContext(shared.ContextWithUser(r.Context(), user)))
				return
			}
		}
		if httpx.WantsJSON(r) {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "Sign in to continue.")
			return
		}
		target := LoginPath
		if r.Method == http.MethodGet && r.URL.Path != "/" {
			target += "?" + url.Values{"next": {r.URL.RequestURI()}}.Encode()
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	})
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	if strings.HasPrefix(next, LoginPath) {
		return ""
	}
	return next
}

func displayName(u *User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func loginMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "Email.required":
		return "Enter your email."
	case "Email.email":
		return "Enter a valid email address."
	case "Password.required":
		return "Enter your password."
	case "Password.min":
		return "Passwords are at least 8 characters."
	default:
		return "Invalid value."
	}
}
