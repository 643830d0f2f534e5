package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

type fakeSetup struct {
	secret string
	err    error
	got    *stripe.SetupIntentParams
}

func (f *fakeSetup) New(p *stripe.SetupIntentParams) (*stripe.SetupIntent, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.SetupIntent{ClientSecret: f.secret}, nil
}

type fakePayments struct {
	status stripe.PaymentIntentStatus
	err    error
	got    *stripe.PaymentIntentParams
}

func (f *fakePayments) New(p *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.got = p
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{
		ID:       "pi_123",
		Status:   f.status,
		Amount:   *p.Amount,
		Currency: stripe.Currency(*p.Currency),
	}, nil
}

func TestClientToken(t *testing.T) {
	setup := &fakeSetup{secret: "seti_secret"}
	gw := newStripe(setup, &fakePayments{}, "")

	tok, err := gw.ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "seti_secret", tok)
	assert.True(t, *setup.got.AutomaticPaymentMethods.Enabled)
}

func TestClientTokenError(t *testing.T) {
	gw := newStripe(&fakeSetup{err: errors.New("no api key")}, &fakePayments{}, "usd")

	_, err := gw.ClientToken(context.Background())
	assert.ErrorContains(t, err, "no api key")
}

func TestSaleConvertsToCents(t *testing.T) {
	pay := &fakePayments{status: stripe.PaymentIntentStatusSucceeded}
	gw := newStripe(&fakeSetup{}, pay, "EUR")

	res, err := gw.Sale(context.Background(), decimal.RequireFromString("30.005"), "pm_card_visa")
	require.NoError(t, err)

	assert.Equal(t, int64(3001), *pay.got.Amount)
	assert.Equal(t, "eur", *pay.got.Currency)
	assert.Equal(t, "pm_card_visa", *pay.got.PaymentMethod)
	assert.True(t, *pay.got.Confirm)

	assert.True(t, res.Success)
	assert.Equal(t, Transaction{ID: "pi_123", Status: "succeeded", Amount: "30.01", Currency: "eur"}, res.Transaction)

	raw, err := res.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"transaction":{"id":"pi_123","status":"succeeded","amount":"30.01","currency":"eur"}}`, string(raw))
}

func TestSaleDeclined(t *testing.T) {
	gw := newStripe(&fakeSetup{}, &fakePayments{status: stripe.PaymentIntentStatusRequiresPaymentMethod}, "usd")

	res, err := gw.Sale(context.Background(), decimal.NewFromInt(10), "pm_card_chargeDeclined")
	assert.ErrorIs(t, err, ErrDeclined)
	require.NotNil(t, res)
	assert.False(t, res.Success)
}

func TestSaleRejectsNonPositiveAmount(t *testing.T) {
	pay := &fakePayments{}
	gw := newStripe(&fakeSetup{}, pay, "usd")

	_, err := gw.Sale(context.Background(), decimal.Zero, "pm")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Nil(t, pay.got)
}
