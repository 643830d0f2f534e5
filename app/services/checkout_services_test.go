package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/bazaar/app/events"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/repositories/mocks"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/payment"
)

const (
	buyer   = "64b0000000000000000000b1"
	product = "64b0000000000000000000d1"
)

func amount(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func cart(t *testing.T, raw string) []services.CartItem {
	t.Helper()
	var items []services.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	return items
}

func TestTotal(t *testing.T) {
	items := cart(t, `[{"_id":"a","price":10.1,"name":"x"},{"_id":"b","price":"0.2"},{"_id":"a","price":10.1}]`)
	assert.True(t, services.Total(items).Equal(decimal.RequireFromString("20.4")))
	assert.True(t, services.Total(nil).IsZero())
}

func TestCheckout(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("Sale", ctx, amount("30"), "nonce-1").Return(&payment.Result{
		Success:     true,
		Transaction: payment.Transaction{ID: "pi_1", Status: "succeeded", Amount: "30.00", Currency: "usd"},
	}, nil)

	orders := &mocks.Orders{}
	orders.On("Create", ctx, mock.MatchedBy(func(o *models.Order) bool {
		return o.BuyerID == buyer && len(o.ProductIDs) == 2 && o.ProductIDs[0] == product && o.ProductIDs[1] == product
	})).Return(nil)

	bus := event.NewBus()
	var mu sync.Mutex
	var fired []*models.Order
	bus.Listen(events.OrderCreated, func(_ context.Context, payload interface{}) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, payload.(*models.Order))
	})

	svc := services.NewCheckoutService(gw, orders, bus)
	order, err := svc.Checkout(ctx, buyer, "nonce-1", cart(t, `[{"_id":"`+product+`","price":10},{"_id":"`+product+`","price":20}]`))
	require.NoError(t, err)
	bus.Wait()

	assert.Equal(t, models.StatusNotProcess, order.Status)
	assert.JSONEq(t, `{"success":true,"transaction":{"id":"pi_1","status":"succeeded","amount":"30.00","currency":"usd"}}`, string(order.Payment))
	require.Len(t, fired, 1)
	assert.Equal(t, order.ID, fired[0].ID)
	orders.AssertExpectations(t)
}

func TestCheckoutGatewayFailureRecordsNothing(t *testing.T) {
	for _, gwErr := range []error{
		fmt.Errorf("%w: status requires_payment_method", payment.ErrDeclined),
		errors.New("connection refused"),
	} {
		gw := &mocks.Gateway{}
		gw.On("Sale", ctx, mock.Anything, "n").Return(nil, gwErr)
		orders := &mocks.Orders{}

		_, err := services.NewCheckoutService(gw, orders, nil).Checkout(ctx, buyer, "n", cart(t, `[{"_id":"`+product+`","price":5}]`))
		assert.ErrorIs(t, err, gwErr)
		orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	gw := &mocks.Gateway{}
	_, err := services.NewCheckoutService(gw, &mocks.Orders{}, nil).Checkout(ctx, "u1", "n", nil)
	assert.ErrorIs(t, err, services.ErrEmptyCart)
	gw.AssertNotCalled(t, "Sale", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutRejectsBadIDsWithoutCharging(t *testing.T) {
	cases := []struct {
		name    string
		buyerID string
		cart    string
	}{
		{"malformed cart id", buyer, `[{"_id":"` + product + `","price":10},{"_id":"not-an-id","price":10}]`},
		{"missing cart id", buyer, `[{"price":10}]`},
		{"malformed buyer", "u1", `[{"_id":"` + product + `","price":10}]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &mocks.Gateway{}
			orders := &mocks.Orders{}

			_, err := services.NewCheckoutService(gw, orders, nil).Checkout(ctx, tc.buyerID, "n", cart(t, tc.cart))
			assert.ErrorIs(t, err, repositories.ErrInvalidID)
			gw.AssertNotCalled(t, "Sale", mock.Anything, mock.Anything, mock.Anything)
			orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderStatusUpdate(t *testing.T) {
	orders := &mocks.Orders{}
	orders.On("UpdateStatus", ctx, "o1", models.StatusShipped).Return(&models.Order{ID: "o1", BuyerID: "u1", Status: models.StatusShipped}, nil)
	orders.On("UpdateStatus", ctx, "bad", models.StatusShipped).Return(nil, repositories.ErrInvalidID)

	bus := event.NewBus()
	var mu sync.Mutex
	n := 0
	bus.Listen(events.OrderStatusUpdated, func(context.Context, interface{}) {
		mu.Lock()
		n++
		mu.Unlock()
	})
	svc := services.NewOrderService(orders, bus)

	_, err := svc.UpdateStatus(ctx, "o1", "shipped")
	assert.ErrorIs(t, err, services.ErrUnknownStatus)

	o, err := svc.UpdateStatus(ctx, "o1", models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, o.Status)

	_, err = svc.UpdateStatus(ctx, "bad", models.StatusShipped)
	assert.ErrorIs(t, err, repositories.ErrInvalidID)

	bus.Wait()
	assert.Equal(t, 1, n)
	orders.AssertNumberOfCalls(t, "UpdateStatus", 2)
}
