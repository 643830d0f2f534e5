package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/pkg/router"
)

func tag(name string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", name)
			next.ServeHTTP(w, r)
		})
	}
}

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }

func TestGroupMiddlewareOrder(t *testing.T) {
	r := router.New()
	api := r.Group("/api/v1", tag("outer"))
	admin := api.Group("category", tag("inner"))
	admin.Delete("/delete-category/{id}", "category.delete", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/category/delete-category/42", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"outer", "inner", "route"}, rec.Header().Values("X-Chain"))
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	g := r.Group("/api/v1/product")
	g.Get("/related-product/{pid}/{cid}", "product.related", ok)
	g.Put("/update-product/{pid}", "product.update", ok)

	path, found := r.Path("product.related")
	require.True(t, found)
	assert.Equal(t, "/api/v1/product/related-product/{pid}/{cid}", path)

	url, err := r.URL("product.related", map[string]string{"pid": "p1", "cid": "c1"})
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/product/related-product/p1/c1", url)

	_, err = r.URL("product.related", map[string]string{"pid": "p1"})
	assert.Error(t, err)

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesSorted(t *testing.T) {
	r := router.New()
	r.Post("/b", "b.create", ok)
	r.Get("/b", "b.list", ok)
	r.Get("/a", "", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/a"}, routes[0])
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPost, routes[2].Method)
}

func TestGroupPatch(t *testing.T) {
	r := router.New()
	r.Group("/api/v1/auth").Patch("/profile", "auth.profile.patch", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/auth/profile", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMethodMismatch(t *testing.T) {
	r := router.New()
	r.Get("/only-get", "", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/only-get", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
