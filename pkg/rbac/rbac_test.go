package rbac_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/rbac"
)

func serve(lookup rbac.RoleLookup, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/admin-auth", nil)
	if userID != "" {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	rbac.IsAdmin(lookup)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec
}

func roleOf(role int, err error) rbac.RoleLookup {
	return func(context.Context, string) (int, error) { return role, err }
}

func TestIsAdmin(t *testing.T) {
	rec := serve(roleOf(rbac.RoleAdmin, nil), "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIsAdmin_RegularUser(t *testing.T) {
	rec := serve(roleOf(0, nil), "u1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"UnAuthorized Access"}`, rec.Body.String())
}

func TestIsAdmin_LookupError(t *testing.T) {
	rec := serve(roleOf(0, errors.New("user not found")), "u1")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error in admin middleware","error":"user not found"}`, rec.Body.String())
}

func TestIsAdmin_NoUser(t *testing.T) {
	rec := serve(roleOf(rbac.RoleAdmin, nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
