// Package middleware holds the HTTP middleware shared by the API routes.
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// Limiter caps each client at max requests per sliding window. Clients are
// keyed by True-Client-IP, X-Real-IP, X-Forwarded-For, then RemoteAddr.
type Limiter struct {
	rl *httprate.RateLimiter
}

func NewLimiter(max int, window time.Duration) *Limiter {
	return &Limiter{rl: httprate.NewRateLimiter(max, window,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			response.Fail(w, http.StatusTooManyRequests, "Too Many Requests", nil)
		}),
	)}
}

// Middleware rejects a client with 429 once it exceeds the limit.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return l.rl.Handler(next)
}
