// Package rbac guards routes by the permissions granted to the signed-in
// manager's role.
package rbac

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/halocare/halocare-admin/internal/platform/httpx"
	"github.com/halocare/halocare-admin/internal/shared"
)

// Middleware builds permission guards. The zero value is usable.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAny lets the request through when the manager holds at least one of
// perms. No perms means no restriction.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	required := normalize(perms)
	return func(next http.Handler) http.Handler {
		if len(required) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := shared.UserFromContext(r.Context())
			if ok && grants(user.Role).hasAny(required) {
				next.ServeHTTP(w, r)
				return
			}
			if ok && m.Logger != nil {
				m.Logger.Warn("rbac denied",
					slog.Int64("user_id", user.ID),
					slog.String("role", user.Role),
					slog.String("path", r.URL.Path),
					slog.Any("required", required))
			}
			deny(w, r)
		})
	}
}

// Can reports whether the manager in ctx holds perm.
func Can(ctx context.Context, perm string) bool {
	user, ok := shared.UserFromContext(ctx)
	if !ok {
		return false
	}
	return grants(user.Role).hasAny(normalize([]string{perm}))
}

func deny(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "Your role does not allow this action.")
		return
	}
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

type permissionSet map[string]struct{}

func grants(role string) permissionSet {
	granted := shared.RolePermissions(role)
	set := make(permissionSet, len(granted))
	for _, p := range granted {
		set[strings.ToLower(p)] = struct{}{}
	}
	return set
}

func (s permissionSet) hasAny(required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, p := range required {
		if _, ok := s[p]; ok {
			return true
		}
	}
	return false
}

// normalize lowercases, trims and dedupes, keeping first-seen order.
func normalize(perms []string) []string {
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
