package services

import (
	"context"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/event"
)

type OrderService struct {
	orders repositories.OrderRepository
	bus    *event.Bus
}

func NewOrderService(orders repositories.OrderRepository, bus *event.Bus) *OrderService {
	return &OrderService{orders: orders, bus: bus}
}

func (s *OrderService) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	return s.orders.ByBuyer(ctx, buyerID)
}

func (s *OrderService) All(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// UpdateStatus moves order id to status. An unknown status leaves the
// order untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}

	order, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.FireAsync(ctx, events.OrderStatusUpdated, order)
	}
	return order, nil
}
