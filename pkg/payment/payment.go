// Package payment charges carts through a card gateway.
package payment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrDeclined is returned when the gateway answers but does not accept the charge.
	ErrDeclined = errors.New("payment: transaction declined")
	// ErrInvalidAmount is returned for zero or negative sale amounts.
	ErrInvalidAmount = errors.New("payment: amount must be positive")
)

// Gateway is the checkout surface of a payment provider.
type Gateway interface {
	// ClientToken returns the secret a browser needs to collect a payment method.
	ClientToken(ctx context.Context) (string, error)
	// Sale charges amount against nonce and settles immediately.
	Sale(ctx context.Context, amount decimal.Decimal, nonce string) (*Result, error)
}

// Transaction is the provider's record of a charge.
type Transaction struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Result is stored verbatim on the order.
type Result struct {
	Success     bool        `json:"success"`
	Transaction Transaction `json:"transaction"`
}

// JSON returns the stored form of r.
func (r *Result) JSON() ([]byte, error) {
	return json.Marshal(r)
}
