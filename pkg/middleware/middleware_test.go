package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/cors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
)

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.UserIDFromCtx(r.Context())
	_, _ = w.Write([]byte(id))
}

func TestRequireSignIn_NoToken(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.RequireSignIn(http.HandlerFunc(echoUser)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/user-auth", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, rec.Body.String())
}

func TestRequireSignIn_BadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "not-a-jwt")

	rec := httptest.NewRecorder()
	middleware.RequireSignIn(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireSignIn_ValidToken(t *testing.T) {
	token, err := auth.GenerateToken("64b7f0c2a1e4d3f5a6b7c8d9")
	require.NoError(t, err)

	for _, header := range []string{token, "Bearer " + token} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)

		rec := httptest.NewRecorder()
		middleware.RequireSignIn(http.HandlerFunc(echoUser)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "64b7f0c2a1e4d3f5a6b7c8d9", rec.Body.String())
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := middleware.CORS(cors.Options{
		AllowedOrigins: []string{"https://shop.example"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         60,
	})(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "60", rec.Header().Get("Access-Control-Max-Age"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLimiter(t *testing.T) {
	h := middleware.NewLimiter(2, time.Minute).Middleware(http.HandlerFunc(echoUser))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, hit("10.0.0.1").Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	limited := hit("10.0.0.1")
	assert.JSONEq(t, `{"success":false,"message":"Too Many Requests"}`, limited.Body.String())
	assert.NotEmpty(t, limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit("10.0.0.2").Code)
}

func TestRecovery(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, rec.Body.String())
}

func TestLoggerKeepsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
