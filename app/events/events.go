// Package events names the shop's domain events and wires their listeners.
package events

import (
	"context"
	"encoding/json"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

const (
	// OrderCreated carries the *models.Order recorded at checkout.
	OrderCreated = "order.created"
	// OrderStatusUpdated carries the *models.Order after an admin status change.
	OrderStatusUpdated = "order.status_updated"
)

// Notifier delivers a message to every live connection of a user.
type Notifier interface {
	SendTo(userID string, data []byte)
}

// Register attaches the order listeners to bus. notifier may be nil.
func Register(bus *event.Bus, notifier Notifier) {
	bus.Listen(OrderCreated, func(ctx context.Context, payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		metrics.OrdersTotal.WithLabelValues("created").Inc()
		push(ctx, notifier, OrderCreated, order)
	})

	bus.Listen(OrderStatusUpdated, func(ctx context.Context, payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		metrics.OrdersTotal.WithLabelValues(string(order.Status)).Inc()
		push(ctx, notifier, OrderStatusUpdated, order)
	})
}

type message struct {
	Event string        `json:"event"`
	Order *models.Order `json:"order"`
}

func push(ctx context.Context, notifier Notifier, name string, order *models.Order) {
	if notifier == nil || order.BuyerID == "" {
		return
	}
	data, err := json.Marshal(message{Event: name, Order: order})
	if err != nil {
		logger.WithCtx(ctx).Error("encode order event", "event", name, "order_id", order.ID, "error", err)
		return
	}
	notifier.SendTo(order.BuyerID, data)
}
