// Package rbac gates routes on the signed-in user's role.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// RoleAdmin is the role value that grants admin access.
const RoleAdmin = 1

// RoleLookup returns the stored role of the user with the given id.
type RoleLookup func(ctx context.Context, userID string) (int, error)

// IsAdmin allows the request through only when lookup reports RoleAdmin for
// the user placed in the context by middleware.RequireSignIn.
func IsAdmin(lookup RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.UserIDFromCtx(r.Context())
			if !ok {
				response.Fail(w, http.StatusUnauthorized, "UnAuthorized Access", nil)
				return
			}

			role, err := lookup(r.Context(), id)
			if err != nil {
				logger.WithCtx(r.Context()).Error("admin lookup", "user_id", id, "error", err)
				response.Fail(w, http.StatusUnauthorized, "Error in admin middleware", err)
				return
			}

			if role != RoleAdmin {
				response.Fail(w, http.StatusUnauthorized, "UnAuthorized Access", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
