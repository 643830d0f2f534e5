package ctx_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	appctx "github.com/shashiranjanraj/bazaar/pkg/ctx"
)

func TestWrapAndOK(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.OK(appctx.H{"success": true, "total": 3})
	})(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"total":3}`, rec.Body.String())
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Fail(http.StatusInternalServerError, "Error while getting categories", assert.AnError)
		assert.Equal(t, http.StatusInternalServerError, c.WrittenStatus())
	})(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Error while getting categories","error":"`+assert.AnError.Error()+`"}`, rec.Body.String())
}

func TestParam(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/items/{slug}", appctx.Wrap(func(c *appctx.Context) {
		c.OK(appctx.H{"slug": c.Param("slug")})
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/red-shoes", nil))
	assert.JSONEq(t, `{"slug":"red-shoes"}`, rec.Body.String())
}

func TestBindJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Books"}`))
	appctx.Wrap(func(c *appctx.Context) {
		var in struct {
			Name string `json:"name"`
		}
		require.NoError(t, c.BindJSON(&in))
		assert.Equal(t, "Books", in.Name)
	})(rec, req)
}

func TestBindJSON_EmptyBodyIsNotAnError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		var in struct{ Name string }
		assert.NoError(t, c.BindJSON(&in))
	})(rec, req)
}

func TestBindJSON_Malformed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	appctx.Wrap(func(c *appctx.Context) {
		var in struct{ Name string }
		assert.Error(t, c.BindJSON(&in))
	})(rec, req)
}

func TestBindJSON_TooLarge(t *testing.T) {
	config.Set("MAX_BODY_BYTES", "16")
	defer config.Set("MAX_BODY_BYTES", "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a very long category name"}`))
	appctx.Wrap(func(c *appctx.Context) {
		var in struct{ Name string }
		assert.ErrorIs(t, c.BindJSON(&in), appctx.ErrBodyTooLarge)
	})(rec, req)
}

func TestMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Lamp"))
	fw, err := mw.CreateFormFile("photo", "lamp.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	appctx.Wrap(func(c *appctx.Context) {
		require.NoError(t, c.ParseMultipart())
		assert.Equal(t, "Lamp", c.PostForm("name"))
		f, hdr, err := c.FormFile("photo")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, int64(len("png-bytes")), hdr.Size)
	})(rec, req)
}

func TestUserID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "u1"))

	appctx.Wrap(func(c *appctx.Context) {
		id, ok := c.UserID()
		assert.True(t, ok)
		assert.Equal(t, "u1", id)
	})(rec, req)
}

func TestData(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	appctx.Wrap(func(c *appctx.Context) {
		c.Data(http.StatusOK, "image/png", []byte{1, 2, 3})
	})(rec, req)

	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{1, 2, 3}, rec.Body.Bytes())
}
