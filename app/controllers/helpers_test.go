package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories/mocks"
	"github.com/shashiranjanraj/bazaar/internal/kernel"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

const (
	adminID = "64b0000000000000000000a1"
	buyerID = "64b0000000000000000000b1"
	catID   = "64b0000000000000000000c1"
	prodID  = "64b0000000000000000000d1"
	orderID = "64b0000000000000000000e1"
)

type fixture struct {
	t        *testing.T
	handler  http.Handler
	bus      *event.Bus
	hub      *ws.Hub
	users    *mocks.Users
	cats     *mocks.Categories
	products *mocks.Products
	orders   *mocks.Orders
	gateway  *mocks.Gateway
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store, users, cats, products, orders := mocks.Store()
	gw := &mocks.Gateway{}
	bus := event.NewBus()
	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	events.Register(bus, hub)

	users.On("FindByID", mock.Anything, adminID).Return(&models.User{ID: adminID, Name: "Admin", Role: models.RoleAdmin}, nil).Maybe()
	users.On("FindByID", mock.Anything, buyerID).Return(&models.User{ID: buyerID, Name: "Buyer", Role: models.RoleUser}, nil).Maybe()

	h := kernel.Handler(kernel.Deps{
		Store:   store,
		Gateway: gw,
		Bus:     bus,
		Hub:     hub,
		Limiter: middleware.NewLimiter(10_000, time.Minute),
	})

	return &fixture{t: t, handler: h, bus: bus, hub: hub, users: users, cats: cats, products: products, orders: orders, gateway: gw}
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID)
	require.NoError(t, err)
	return tok
}

func (f *fixture) send(req *http.Request, userID string) *httptest.ResponseRecorder {
	if userID != "" {
		req.Header.Set("Authorization", token(f.t, userID))
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) do(method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			data, err := json.Marshal(body)
			require.NoError(f.t, err)
			raw = string(data)
		}
		r = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return f.send(req, userID)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
