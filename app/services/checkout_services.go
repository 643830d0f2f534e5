package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/payment"
)

// CartItem is one line of a submitted cart. Other product fields sent by
// the client are ignored.
type CartItem struct {
	ID    string          `json:"_id"`
	Price decimal.Decimal `json:"price"`
}

// Total sums the cart prices.
func Total(cart []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart {
		total = total.Add(item.Price)
	}
	return total
}

type CheckoutService struct {
	gateway payment.Gateway
	orders  repositories.OrderRepository
	bus     *event.Bus
}

func NewCheckoutService(gateway payment.Gateway, orders repositories.OrderRepository, bus *event.Bus) *CheckoutService {
	return &CheckoutService{gateway: gateway, orders: orders, bus: bus}
}

func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	return s.gateway.ClientToken(ctx)
}

// Checkout charges the cart total to nonce and records the order for
// buyerID. Every id is checked before the gateway is called. No order is
// written when the charge fails.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID, nonce string, cart []CartItem) (*models.Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	if err := repositories.CheckID(buyerID); err != nil {
		return nil, fmt.Errorf("buyer: %w", err)
	}
	for _, item := range cart {
		if err := repositories.CheckID(item.ID); err != nil {
			return nil, fmt.Errorf("cart item: %w", err)
		}
	}

	res, err := s.gateway.Sale(ctx, Total(cart), nonce)
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			metrics.PaymentsTotal.WithLabelValues("declined").Inc()
		} else {
			metrics.PaymentsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.PaymentsTotal.WithLabelValues("success").Inc()

	raw, err := res.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode payment result: %w", err)
	}

	ids := make([]string, len(cart))
	for i, item := range cart {
		ids[i] = item.ID
	}

	order := &models.Order{
		ProductIDs: ids,
		BuyerID:    buyerID,
		Payment:    models.RawJSON(raw),
		Status:     models.StatusNotProcess,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("record order after payment %s: %w", res.Transaction.ID, err)
	}

	if s.bus != nil {
		s.bus.FireAsync(ctx, events.OrderCreated, order)
	}
	return order, nil
}
