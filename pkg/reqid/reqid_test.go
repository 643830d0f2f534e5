package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazaar/pkg/reqid"
)

func serve(t *testing.T, inbound string) (string, string) {
	t.Helper()
	var seen string
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(reqid.Header, inbound)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(reqid.Header)
}

func TestMiddleware_GeneratesID(t *testing.T) {
	seen, header := serve(t, "")
	assert.Len(t, seen, 32)
	assert.Equal(t, seen, header)
}

func TestMiddleware_ReusesInbound(t *testing.T) {
	seen, header := serve(t, "gateway-123")
	assert.Equal(t, "gateway-123", seen)
	assert.Equal(t, "gateway-123", header)
}

func TestMiddleware_RejectsMalformedInbound(t *testing.T) {
	for _, bad := range []string{"has space", "new\nline", strings.Repeat("a", 65)} {
		seen, _ := serve(t, bad)
		assert.NotEqual(t, bad, seen)
		assert.Len(t, seen, 32)
	}
}
