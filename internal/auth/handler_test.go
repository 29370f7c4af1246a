package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/auth"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
	_ "github.com/halocare/halocare-admin/testing"
)

type stubRepo struct {
	user    *auth.User
	findErr error
	touched []int64
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user == nil || !strings.EqualFold(s.user.Email, email) {
		return nil, shared.ErrNotFound
	}
	u := *s.user
	return &u, nil
}

func (s *stubRepo) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	s.touched = append(s.touched, id)
	return nil
}

func (s *stubRepo) Create(ctx context.Context, u auth.User) (*auth.User, error) {
	u.ID = 42
	s.user = &u
	return &u, nil
}

type auditSpy struct{ logs []shared.AuditLog }

func (a *auditSpy) Record(_ context.Context, log shared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

type fixture struct {
	handler  http.Handler
	sessions *shared.SessionManager
	repo     *stubRepo
	audit    *auditSpy
}

func newFixture(t *testing.T, repo *stubRepo) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)
	templates, err := view.NewEngine()
	require.NoError(t, err)
	renderer := &admin.Renderer{Templates: templates, CSRF: shared.NewCSRFManager("csrfsecret")}
	audit := &auditSpy{}
	h := auth.NewHandler(nil, auth.NewService(repo), renderer, sessions, audit)

	mux := http.NewServeMux()
	mux.Handle("/auth/", http.StripPrefix("/auth", routes(h)))
	mux.Handle("/private", auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _ := shared.UserFromContext(r.Context())
		_, _ = w.Write([]byte("hello " + user.Email))
	})))
	// Load and commit the session around every request the way the app middleware does.
	withSession := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sessions.Load(r.Context(), r)
		require.NoError(t, err)
		ctx := shared.ContextWithSession(r.Context(), sess)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, r.WithContext(ctx))
		require.NoError(t, sessions.Commit(ctx, w, sess))
		for k, v := range rec.Header() {
			w.Header()[k] = v
		}
		w.WriteHeader(rec.Code)
		_, _ = w.Write(rec.Body.Bytes())
	})
	return &fixture{handler: withSession, sessions: sessions, repo: repo, audit: audit}
}

func routes(h *auth.Handler) http.Handler {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(out)
}

func (f *fixture) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestLoginPage(t *testing.T) {
	f := newFixture(t, &stubRepo{})

	rec := f.do(t, http.MethodGet, "/auth/login?next=/doctors", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<form")
	assert.Contains(t, rec.Body.String(), `name="next" value="/doctors"`)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := newFixture(t, &stubRepo{user: &auth.User{ID: 1, Email: "user@halocare.id", PasswordHash: hashed(t, "correctpass"), IsActive: true}})

	rec := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"user@halocare.id"}, "password": {"wrongpass"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
	assert.Empty(t, f.repo.touched)
	assert.Empty(t, f.audit.logs)
}

func TestLoginValidationMessages(t *testing.T) {
	f := newFixture(t, &stubRepo{})

	rec := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"nope"}, "password": {"short"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter a valid email address.")
	assert.Contains(t, rec.Body.String(), "Passwords are at least 8 characters.")
}

func TestLoginInactiveUser(t *testing.T) {
	f := newFixture(t, &stubRepo{user: &auth.User{ID: 1, Email: "user@halocare.id", PasswordHash: hashed(t, "correctpass"), IsActive: false}})

	rec := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"user@halocare.id"}, "password": {"correctpass"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginRepositoryFailure(t *testing.T) {
	f := newFixture(t, &stubRepo{findErr: errors.New("connection refused")})

	rec := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"user@halocare.id"}, "password": {"correctpass"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in is unavailable right now.")
}

func TestLoginSuccessSignsInAndRedirects(t *testing.T) {
	f := newFixture(t, &stubRepo{user: &auth.User{ID: 5, Email: "rina@halocare.id", Name: "Rina", Role: shared.RoleFinance, PasswordHash: hashed(t, "correctpass"), IsActive: true}})

	rec := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"Rina@HaloCare.id"}, "password": {"correctpass"}, "next": {"/transactions"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/transactions", rec.Header().Get("Location"))
	assert.Equal(t, []int64{5}, f.repo.touched)
	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, shared.ActionLogin, f.audit.logs[0].Action)

	cookie := sessionCookie(t, rec, f.sessions.CookieName())
	private := f.do(t, http.MethodGet, "/private", nil, cookie)
	assert.Equal(t, http.StatusOK, private.Code)
	assert.Equal(t, "hello rina@halocare.id", private.Body.String())

	again := f.do(t, http.MethodGet, "/auth/login", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, again.Code, "signed-in managers skip the form")
}

func TestLoginIgnoresForeignRedirect(t *testing.T) {
	f := newFixture(t, &stubRepo{user: &auth.User{ID: 5, Email: "rina@halocare.id", PasswordHash: hashed(t, "correctpass"), IsActive: true}})

	rec := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"rina@halocare.id"}, "password": {"correctpass"}, "next": {"//evil.example/phish"}})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLogoutDestroysSession(t *testing.T) {
	f := newFixture(t, &stubRepo{user: &auth.User{ID: 5, Email: "rina@halocare.id", PasswordHash: hashed(t, "correctpass"), IsActive: true}})
	login := f.do(t, http.MethodPost, "/auth/login", url.Values{"email": {"rina@halocare.id"}, "password": {"correctpass"}})
	cookie := sessionCookie(t, login, f.sessions.CookieName())

	rec := f.do(t, http.MethodPost, "/auth/logout", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, auth.LoginPath, rec.Header().Get("Location"))

	private := f.do(t, http.MethodGet, "/private", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, private.Code)
	assert.Equal(t, "/auth/login?next=%2Fprivate", private.Header().Get("Location"))
}

func TestRequireUserAnswersJSONWith401(t *testing.T) {
	f := newFixture(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUserValidatesAndHashes(t *testing.T) {
	repo := &stubRepo{}
	svc := auth.NewService(repo)

	_, err := svc.CreateUser(context.Background(), auth.NewUser{Email: "x", Name: "X", Role: "root", Password: "short"})
	require.Error(t, err)

	u, err := svc.CreateUser(context.Background(), auth.NewUser{Email: " Ops@HaloCare.id ", Name: "Ops", Role: shared.RoleManager, Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "ops@halocare.id", u.Email)
	assert.True(t, u.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("longenough")))
}
