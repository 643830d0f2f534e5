// Package ctx provides the request context handed to every controller.
//
// A handler receives one *Context instead of (w, r):
//
//	func (c *ProductController) Show(cx *ctx.Context) {
//	    p, err := c.products.FindBySlug(cx.Context(), cx.Param("slug"))
//	    ...
//	    cx.OK(ctx.H{"success": true, "product": p})
//	}
//
//	router.Get("/get-product/{slug}", "product.show", ctx.Wrap(c.Show))
package ctx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// H is the JSON envelope body.
type H = response.H

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap adapts a HandlerFunc to http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	status int
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request ─────────────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/orders/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// Query returns a query-string value, or "".
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// UserID returns the id placed on the request by middleware.RequireSignIn.
func (c *Context) UserID() (string, bool) {
	return auth.UserIDFromCtx(c.R.Context())
}

// ErrBodyTooLarge is returned when a body exceeds MAX_BODY_BYTES.
var ErrBodyTooLarge = errors.New("request body too large")

// BindJSON decodes the (size-capped) JSON body into dest. An empty body
// leaves dest untouched.
func (c *Context) BindJSON(dest any) error {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, config.MaxBodyBytes())

	err := json.NewDecoder(c.R.Body).Decode(dest)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
}

// ParseMultipart parses a multipart/form-data body. Non-multipart requests
// fall back to url-encoded form parsing.
func (c *Context) ParseMultipart() error {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, config.MaxBodyBytes())

	ct := c.R.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/") {
		if err := c.R.ParseMultipartForm(config.MaxBodyBytes()); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return ErrBodyTooLarge
			}
			return err
		}
		return nil
	}
	return c.R.ParseForm()
}

// PostForm returns a form field. Call ParseMultipart first for multipart bodies.
func (c *Context) PostForm(key string) string {
	return c.R.FormValue(key)
}

// FormFile returns the uploaded file for key, or http.ErrMissingFile.
func (c *Context) FormFile(key string) (multipart.File, *multipart.FileHeader, error) {
	return c.R.FormFile(key)
}

// ─── Response ────────────────────────────────────────────────────────────────

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) {
	c.status = code
	response.JSON(c.W, code, v)
}

// OK writes a 200 response.
func (c *Context) OK(body H) { c.JSON(http.StatusOK, body) }

// Created writes a 201 response.
func (c *Context) Created(body H) { c.JSON(http.StatusCreated, body) }

// Fail writes {success:false, message, error}.
func (c *Context) Fail(code int, message string, err error) {
	c.JSON(code, response.FailBody(message, err))
}

// Data writes raw bytes with the given content type.
func (c *Context) Data(code int, contentType string, data []byte) {
	c.W.Header().Set("Content-Type", contentType)
	c.W.WriteHeader(code)
	c.status = code
	_, _ = c.W.Write(data)
}

// WrittenStatus returns the status written so far, or 0.
func (c *Context) WrittenStatus() int { return c.status }
