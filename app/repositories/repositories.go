// Package repositories declares the data layer used by the services and
// controllers. Two implementations exist: mongodb (the default store) and
// gormdb (SQL drivers).
package repositories

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/bazaar/app/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id")
	ErrDuplicate = errors.New("duplicate key")
)

type UserRepository interface {
	// Create assigns u.ID and timestamps. ErrDuplicate on a taken email.
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error)
	// Update writes name, phone, address, password and role, and returns
	// the stored user.
	Update(ctx context.Context, u *models.User) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
}

type CategoryRepository interface {
	All(ctx context.Context) ([]models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	// Update renames the category and returns it; ErrNotFound when absent.
	Update(ctx context.Context, id, name, slug string) (*models.Category, error)
	// Delete succeeds whether or not the id exists.
	Delete(ctx context.Context, id string) error
}

// ProductQuery selects products. Zero fields do not filter. Results are
// newest first and never carry photo bytes.
type ProductQuery struct {
	CategoryIDs []string
	// PriceRange is an inclusive [min, max] bound.
	PriceRange *[2]float64
	// Keyword matches name or description, case-insensitively.
	Keyword   string
	ExcludeID string
	Skip      int
	Limit     int
	// Populate loads each product's Category.
	Populate bool
}

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) error
	// Update writes every field of p. The stored photo is kept unless
	// replacePhoto is set.
	Update(ctx context.Context, p *models.Product, replacePhoto bool) (*models.Product, error)
	// Delete succeeds whether or not the id exists.
	Delete(ctx context.Context, id string) error
	Find(ctx context.Context, q ProductQuery) ([]models.Product, error)
	// FindBySlug returns the product with its category, without photo.
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	// Photo returns the stored bytes and content type.
	Photo(ctx context.Context, id string) ([]byte, string, error)
	Count(ctx context.Context) (int64, error)
	All(ctx context.Context) ([]models.Product, error)
}

type OrderRepository interface {
	// Create assigns o.ID and timestamps. Status defaults to Not Process.
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// ByBuyer and All return orders newest first with products (no photo)
	// and buyer populated.
	ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	// UpdateStatus sets the status and returns the updated order.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users      UserRepository
	Categories CategoryRepository
	Products   ProductRepository
	Orders     OrderRepository

	// Close releases the underlying connection.
	Close func(ctx context.Context) error
}
