// Package mocks holds testify mocks of the repositories and the payment
// gateway for service and controller tests.
package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/payment"
)

func userOrNil(args mock.Arguments, i int) *models.User {
	u, _ := args.Get(i).(*models.User)
	return u
}

type Users struct{ mock.Mock }

var _ repositories.UserRepository = (*Users)(nil)

func (m *Users) Create(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil && u.ID == "" {
		u.ID = repositories.NewID()
	}
	return args.Error(0)
}

func (m *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args, 0), args.Error(1)
}

func (m *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args, 0), args.Error(1)
}

func (m *Users) FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	args := m.Called(ctx, email, answer)
	return userOrNil(args, 0), args.Error(1)
}

func (m *Users) Update(ctx context.Context, u *models.User) (*models.User, error) {
	args := m.Called(ctx, u)
	return userOrNil(args, 0), args.Error(1)
}

func (m *Users) All(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

type Categories struct{ mock.Mock }

var _ repositories.CategoryRepository = (*Categories)(nil)

func categoryOrNil(args mock.Arguments, i int) *models.Category {
	c, _ := args.Get(i).(*models.Category)
	return c
}

func (m *Categories) All(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]models.Category)
	return cs, args.Error(1)
}

func (m *Categories) FindByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	return categoryOrNil(args, 0), args.Error(1)
}

func (m *Categories) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	return categoryOrNil(args, 0), args.Error(1)
}

func (m *Categories) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil && c.ID == "" {
		c.ID = repositories.NewID()
	}
	return args.Error(0)
}

func (m *Categories) Update(ctx context.Context, id, name, slug string) (*models.Category, error) {
	args := m.Called(ctx, id, name, slug)
	return categoryOrNil(args, 0), args.Error(1)
}

func (m *Categories) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type Products struct{ mock.Mock }

var _ repositories.ProductRepository = (*Products)(nil)

func productOrNil(args mock.Arguments, i int) *models.Product {
	p, _ := args.Get(i).(*models.Product)
	return p
}

func (m *Products) Create(ctx context.Context, p *models.Product) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil && p.ID == "" {
		p.ID = repositories.NewID()
	}
	return args.Error(0)
}

func (m *Products) Update(ctx context.Context, p *models.Product, replacePhoto bool) (*models.Product, error) {
	args := m.Called(ctx, p, replacePhoto)
	return productOrNil(args, 0), args.Error(1)
}

func (m *Products) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Products) Find(ctx context.Context, q repositories.ProductQuery) ([]models.Product, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]models.Product)
	return ps, args.Error(1)
}

func (m *Products) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	args := m.Called(ctx, slug)
	return productOrNil(args, 0), args.Error(1)
}

func (m *Products) Photo(ctx context.Context, id string) ([]byte, string, error) {
	args := m.Called(ctx, id)
	data, _ := args.Get(0).([]byte)
	return data, args.String(1), args.Error(2)
}

func (m *Products) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *Products) All(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]models.Product)
	return ps, args.Error(1)
}

type Orders struct{ mock.Mock }

var _ repositories.OrderRepository = (*Orders)(nil)

func orderOrNil(args mock.Arguments, i int) *models.Order {
	o, _ := args.Get(i).(*models.Order)
	return o
}

func (m *Orders) Create(ctx context.Context, o *models.Order) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil && o.ID == "" {
		o.ID = repositories.NewID()
	}
	return args.Error(0)
}

func (m *Orders) FindByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args, 0), args.Error(1)
}

func (m *Orders) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	args := m.Called(ctx, buyerID)
	os, _ := args.Get(0).([]models.Order)
	return os, args.Error(1)
}

func (m *Orders) All(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	os, _ := args.Get(0).([]models.Order)
	return os, args.Error(1)
}

func (m *Orders) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	return orderOrNil(args, 0), args.Error(1)
}

type Gateway struct{ mock.Mock }

var _ payment.Gateway = (*Gateway)(nil)

func (m *Gateway) ClientToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Gateway) Sale(ctx context.Context, amount decimal.Decimal, nonce string) (*payment.Result, error) {
	args := m.Called(ctx, amount, nonce)
	res, _ := args.Get(0).(*payment.Result)
	return res, args.Error(1)
}

// Store returns a repositories.Store backed by fresh mocks.
func Store() (*repositories.Store, *Users, *Categories, *Products, *Orders) {
	u, c, p, o := &Users{}, &Categories{}, &Products{}, &Orders{}
	return &repositories.Store{
		Users:      u,
		Categories: c,
		Products:   p,
		Orders:     o,
		Close:      func(context.Context) error { return nil },
	}, u, c, p, o
}
