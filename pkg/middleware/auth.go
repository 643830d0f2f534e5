package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// RequireSignIn verifies the Authorization header and stores the token's
// user id in the request context. The header carries the bare token; a
// "Bearer " prefix is accepted too.
func RequireSignIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := auth.ValidateToken(r.Header.Get("Authorization"))
		if err != nil {
			logger.WithCtx(r.Context()).Warn("sign-in required", "error", err)
			response.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), claims.UserID)))
	})
}
