package events_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

type recorder struct {
	mu   sync.Mutex
	sent map[string][][]byte
}

func (r *recorder) SendTo(userID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = map[string][][]byte{}
	}
	r.sent[userID] = append(r.sent[userID], data)
}

func TestOrderCreatedPushesToBuyer(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	events.Register(bus, rec)

	before := testutil.ToFloat64(metrics.OrdersTotal.WithLabelValues("created"))

	order := &models.Order{ID: "o1", BuyerID: "u1", ProductIDs: []string{"p1"}, Status: models.StatusNotProcess}
	bus.Fire(context.Background(), events.OrderCreated, order)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrdersTotal.WithLabelValues("created")))
	require.Len(t, rec.sent["u1"], 1)

	var msg struct {
		Event string `json:"event"`
		Order struct {
			ID     string `json:"_id"`
			Status string `json:"status"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.sent["u1"][0], &msg))
	assert.Equal(t, "order.created", msg.Event)
	assert.Equal(t, "o1", msg.Order.ID)
	assert.Equal(t, "Not Process", msg.Order.Status)
}

func TestStatusUpdatedCountsNewStatus(t *testing.T) {
	bus := event.NewBus()
	rec := &recorder{}
	events.Register(bus, rec)

	before := testutil.ToFloat64(metrics.OrdersTotal.WithLabelValues("Shipped"))
	bus.Fire(context.Background(), events.OrderStatusUpdated, &models.Order{ID: "o1", BuyerID: "u2", Status: models.StatusShipped})

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.OrdersTotal.WithLabelValues("Shipped")))
	assert.Len(t, rec.sent["u2"], 1)
}

func TestNilNotifierAndForeignPayload(t *testing.T) {
	bus := event.NewBus()
	events.Register(bus, nil)

	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), events.OrderCreated, &models.Order{ID: "o1", BuyerID: "u1"})
		bus.Fire(context.Background(), events.OrderCreated, "not an order")
	})
}
