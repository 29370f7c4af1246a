package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halocare/halocare-admin/internal/shared"
)

func serve(t *testing.T, user *shared.CurrentUser, perms ...string) int {
	t.Helper()
	h := Middleware{}.RequireAny(perms...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/transactions/t1/status", nil)
	if user != nil {
		req = req.WithContext(shared.ContextWithUser(req.Context(), *user))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRequireAny(t *testing.T) {
	finance := &shared.CurrentUser{ID: 3, Role: shared.RoleFinance}
	manager := &shared.CurrentUser{ID: 4, Role: shared.RoleManager}

	assert.Equal(t, http.StatusNoContent, serve(t, finance, shared.PermTransactionsEdit))
	assert.Equal(t, http.StatusForbidden, serve(t, manager, shared.PermTransactionsEdit))
	assert.Equal(t, http.StatusNoContent, serve(t, manager, shared.PermTransactionsEdit, " Doctors.Edit "))
	assert.Equal(t, http.StatusForbidden, serve(t, nil, shared.PermDoctorsView))
	assert.Equal(t, http.StatusNoContent, serve(t, nil))
}

func TestCan(t *testing.T) {
	ctx := shared.ContextWithUser(context.Background(), shared.CurrentUser{Role: shared.RoleViewer})
	assert.True(t, Can(ctx, shared.PermBannersView))
	assert.False(t, Can(ctx, shared.PermBannersEdit))
	assert.False(t, Can(context.Background(), shared.PermBannersView))
}

func TestRequireAnyAnswersJSONCallersWithProblem(t *testing.T) {
	h := Middleware{}.RequireAny(shared.PermTransactionsEdit)(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodPost, "/transactions/t1/status", nil)
	req.Header.Set("Accept", "application/json")
	viewer := shared.CurrentUser{ID: 9, Role: shared.RoleViewer}
	rr := httptest.NewRecorder()

	h.ServeHTTP(rr, req.WithContext(shared.ContextWithUser(req.Context(), viewer)))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "does not allow")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, []string{"doctors.edit", "banners.view"}, normalize([]string{" Doctors.Edit", "", "doctors.edit", "BANNERS.VIEW"}))
}
