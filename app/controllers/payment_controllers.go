package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
)

type PaymentController struct {
	checkout *services.CheckoutService
}

func NewPaymentController(checkout *services.CheckoutService) *PaymentController {
	return &PaymentController{checkout: checkout}
}

func (pc *PaymentController) Token(c *ctx.Context) {
	token, err := pc.checkout.ClientToken(c.Context())
	if err != nil {
		c.Log().Error("payment client token", "error", err)
		c.Fail(http.StatusInternalServerError, "Error while generating payment token", err)
		return
	}
	c.OK(ctx.H{"success": true, "clientToken": token})
}

type paymentRequest struct {
	Nonce string              `json:"nonce"`
	Cart  []services.CartItem `json:"cart"`
}

func (pc *PaymentController) Pay(c *ctx.Context) {
	userID, _ := c.UserID()

	var in paymentRequest
	if err := c.BindJSON(&in); err != nil {
		c.Fail(http.StatusInternalServerError, "Error in payment", err)
		return
	}

	order, err := pc.checkout.Checkout(c.Context(), userID, in.Nonce, in.Cart)
	if err != nil {
		c.Log().Error("payment", "user_id", userID, "error", err)
		c.Fail(http.StatusInternalServerError, "Error in payment", err)
		return
	}

	c.Log().Info("order placed", "order_id", order.ID, "user_id", userID)
	c.OK(ctx.H{"ok": true})
}
