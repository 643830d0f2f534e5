package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

type setupIntentAPI interface {
	New(params *stripe.SetupIntentParams) (*stripe.SetupIntent, error)
}

type paymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Stripe implements Gateway with SetupIntents for client tokens and
// confirmed PaymentIntents for sales.
type Stripe struct {
	setup    setupIntentAPI
	payments paymentIntentAPI
	currency string
}

// NewStripe builds a gateway for secretKey charging in currency (ISO code).
func NewStripe(secretKey, currency string) *Stripe {
	sc := client.New(secretKey, nil)
	return newStripe(sc.SetupIntents, sc.PaymentIntents, currency)
}

func newStripe(setup setupIntentAPI, payments paymentIntentAPI, currency string) *Stripe {
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	return &Stripe{setup: setup, payments: payments, currency: strings.ToLower(currency)}
}

func (s *Stripe) ClientToken(ctx context.Context) (string, error) {
	params := &stripe.SetupIntentParams{
		AutomaticPaymentMethods: &stripe.SetupIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	si, err := s.setup.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe setup intent: %w", err)
	}
	return si.ClientSecret, nil
}

func (s *Stripe) Sale(ctx context.Context, amount decimal.Decimal, nonce string) (*Result, error) {
	cents := amount.Shift(2).Round(0).IntPart()
	if cents <= 0 {
		return nil, ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(cents),
		Currency:      stripe.String(s.currency),
		PaymentMethod: stripe.String(nonce),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx

	pi, err := s.payments.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	res := &Result{
		Success: settled(pi.Status),
		Transaction: Transaction{
			ID:       pi.ID,
			Status:   string(pi.Status),
			Amount:   decimal.New(pi.Amount, -2).StringFixed(2),
			Currency: string(pi.Currency),
		},
	}
	if !res.Success {
		return res, fmt.Errorf("%w: status %s", ErrDeclined, pi.Status)
	}
	return res, nil
}

func settled(status stripe.PaymentIntentStatus) bool {
	return status == stripe.PaymentIntentStatusSucceeded ||
		status == stripe.PaymentIntentStatusProcessing
}
