package ws_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *ws.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestSendToReachesOnlyThatUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ws.Upgrade(w, r, hub, r.URL.Query().Get("user"))
	}))
	defer srv.Close()

	a1 := dial(t, srv, "alice")
	a2 := dial(t, srv, "alice")
	b := dial(t, srv, "bob")
	waitForClients(t, hub, 3)

	hub.SendTo("alice", []byte(`{"status":"Shipped"}`))

	for _, conn := range []*websocket.Conn{a1, a2} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"Shipped"}`, string(msg))
	}

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := b.ReadMessage()
	assert.Error(t, err)
}

func TestDisconnectUnregisters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ws.Upgrade(w, r, hub, "u1")
	}))
	defer srv.Close()

	conn := dial(t, srv, "u1")
	waitForClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitForClients(t, hub, 0)
}

func TestUpgradeRejectsPlainHTTP(t *testing.T) {
	hub := ws.NewHub()
	rec := httptest.NewRecorder()
	err := ws.Upgrade(rec, httptest.NewRequest(http.MethodGet, "/", nil), hub, "u1")
	assert.Error(t, err)
}

func TestShutdownReleasesConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ws.Upgrade(w, r, hub, "u1")
	}))
	defer srv.Close()

	before := runtime.NumGoroutine()
	go hub.Run(ctx)

	conn := dial(t, srv, "u1")
	waitForClients(t, hub, 1)

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived), "got %v", err)
	require.NoError(t, conn.Close())

	assert.Zero(t, hub.ClientCount())
	assert.Eventually(t, func() bool { return runtime.NumGoroutine() <= before }, 2*time.Second, 10*time.Millisecond)
}

func TestUpgradeAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := ws.NewHub()
	go hub.Run(ctx)
	cancel()
	<-hub.Done()

	errs := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		errs <- ws.Upgrade(w, r, hub, "u1")
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, ws.ErrHubClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Upgrade blocked on a stopped hub")
	}
}
