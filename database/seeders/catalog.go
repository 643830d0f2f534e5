package seeders

import (
	"context"
	"errors"
	"strconv"

	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/slug"
)

func init() {
	Register("catalog", SeedCatalog)
}

type demoProduct struct {
	name, description string
	price             float64
	quantity          int
	shipping          bool
}

var demoCatalog = []struct {
	category string
	products []demoProduct
}{
	{"Electronics", []demoProduct{
		{"Wireless Headphones", "Over-ear, 30 hour battery", 89.99, 25, true},
		{"Smart Watch", "Heart rate and sleep tracking", 149.5, 10, true},
		{"USB-C Charger", "65W fast charger", 29, 100, true},
	}},
	{"Books", []demoProduct{
		{"The Go Programming Language", "Donovan and Kernighan", 39.95, 40, true},
		{"Designing Data-Intensive Applications", "Kleppmann", 45, 15, true},
	}},
	{"Home & Kitchen", []demoProduct{
		{"Cast Iron Skillet", "Pre-seasoned 12 inch", 34.99, 30, true},
		{"Café Mug Set", "Four stoneware mugs", 24, 0, false},
	}},
}

// SeedCatalog creates the demo categories and products that are missing.
func SeedCatalog(ctx context.Context, store *repositories.Store) error {
	catalog := services.NewCatalogService(store.Categories, store.Products)

	for _, group := range demoCatalog {
		category, err := catalog.CreateCategory(ctx, group.category)
		if errors.Is(err, services.ErrCategoryExists) {
			category, err = store.Categories.FindByName(ctx, group.category)
		}
		if err != nil {
			return err
		}

		for _, p := range group.products {
			_, err := store.Products.FindBySlug(ctx, slug.Make(p.name))
			if err == nil {
				continue
			}
			if !errors.Is(err, repositories.ErrNotFound) {
				return err
			}

			_, err = catalog.CreateProduct(ctx, services.ProductInput{
				Name:        p.name,
				Description: p.description,
				Price:       strconv.FormatFloat(p.price, 'f', -1, 64),
				Category:    category.ID,
				Quantity:    strconv.Itoa(p.quantity),
				Shipping:    strconv.FormatBool(p.shipping),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}
