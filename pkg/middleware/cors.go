package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/shashiranjanraj/bazaar/config"
)

// DefaultCORSOptions allows the origins listed in CORS_ORIGINS to call the
// API with a bearer token.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: config.CORSOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}
}

// CORS answers preflights and sets the Access-Control headers.
func CORS(opts cors.Options) func(http.Handler) http.Handler {
	return cors.Handler(opts)
}
