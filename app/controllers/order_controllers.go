package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
	"github.com/shashiranjanraj/bazaar/pkg/ws"
)

type OrderController struct {
	orders *services.OrderService
	hub    *ws.Hub
}

func NewOrderController(orders *services.OrderService, hub *ws.Hub) *OrderController {
	return &OrderController{orders: orders, hub: hub}
}

// Mine answers with the signed-in buyer's orders as a bare array.
func (oc *OrderController) Mine(c *ctx.Context) {
	userID, _ := c.UserID()
	orders, err := oc.orders.ByBuyer(c.Context(), userID)
	if err != nil {
		c.Log().Error("buyer orders", "user_id", userID, "error", err)
		c.Fail(http.StatusInternalServerError, "Error While Getting Orders", err)
		return
	}
	c.JSON(http.StatusOK, nonNilOrders(orders))
}

func (oc *OrderController) All(c *ctx.Context) {
	orders, err := oc.orders.All(c.Context())
	if err != nil {
		c.Log().Error("all orders", "error", err)
		c.Fail(http.StatusInternalServerError, "Error While Getting Orders", err)
		return
	}
	c.JSON(http.StatusOK, nonNilOrders(orders))
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	var in statusRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusBadRequest, "Status is not recognized", err)
		return
	}

	order, err := oc.orders.UpdateStatus(c.Context(), c.Param("orderId"), in.Status)
	if errors.Is(err, services.ErrUnknownStatus) {
		c.JSON(http.StatusBadRequest, ctx.H{"message": "Status is not recognized"})
		return
	}
	if err != nil {
		c.Log().Error("update order status", "order_id", c.Param("orderId"), "error", err)
		c.Fail(http.StatusInternalServerError, "Error While Updating Order", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Live upgrades to a websocket that receives the caller's order events.
// Browsers cannot set headers on the upgrade, so the token may also come
// from the "token" query parameter.
func (oc *OrderController) Live(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("live orders: rejected token", "error", err)
		response.Unauthorized(w)
		return
	}

	if err := ws.Upgrade(w, r, oc.hub, claims.UserID); err != nil {
		logger.WithCtx(r.Context()).Warn("live orders: upgrade failed", "user_id", claims.UserID, "error", err)
	}
}

func nonNilOrders(orders []models.Order) []models.Order {
	if orders == nil {
		return []models.Order{}
	}
	return orders
}
