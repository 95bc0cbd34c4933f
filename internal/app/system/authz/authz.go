// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clinichub/internal/app/system/auth"
	"github.com/dalemusser/clinichub/internal/domain/models"
)

// UserCtx returns the current user's role (lowercased), UID, and a
// found flag. ok=false means no authenticated user in context.
func UserCtx(r *http.Request) (role string, uid string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", false
	}
	return strings.ToLower(user.Role), user.UID, true
}

// IsPrivileged reports whether the current request's user holds the
// privileged (admin) role. Every destructive action re-checks this in
// the component accepting it, never only in the UI affordance.
func IsPrivileged(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// SessionModel converts the session user into a domain user for the
// visibility filter. Only the fields the filter reads are populated.
func SessionModel(u *auth.SessionUser) models.User {
	return models.User{
		UID:   u.UID,
		Name:  u.Name,
		Email: u.Email,
		Role:  strings.ToLower(u.Role),
	}
}

// RequirePrivileged is middleware enforcing the privileged role.
func RequirePrivileged(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := UserCtx(r); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !IsPrivileged(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
