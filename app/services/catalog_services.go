package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/slug"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

const (
	ListLimit    = 12
	PageSize     = 6
	RelatedLimit = 3
)

// CatalogService owns categories and products. Category list and product
// count are read through the cache.
type CatalogService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
}

func NewCatalogService(categories repositories.CategoryRepository, products repositories.ProductRepository) *CatalogService {
	return &CatalogService{categories: categories, products: products}
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cache.Remember(ctx, cache.KeyCategories, cache.TTL, s.categories.All)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	existing, err := s.categories.FindByName(ctx, name)
	switch {
	case err == nil && existing != nil:
		return nil, ErrCategoryExists
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	c := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	cache.Forget(ctx, cache.KeyCategories)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	if name == "" {
		return nil, invalid("Name is required")
	}
	c, err := s.categories.Update(ctx, id, name, slug.Make(name))
	if err != nil {
		return nil, err
	}
	cache.Forget(ctx, cache.KeyCategories)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	cache.Forget(ctx, cache.KeyCategories)
	return nil
}

func (s *CatalogService) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categories.FindBySlug(ctx, slug)
}

// ─── Products ────────────────────────────────────────────────────────────────

// ProductInput is a product form as submitted. Numbers arrive as text.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Quantity    string
	Shipping    string

	// Photo is nil when no file was uploaded.
	Photo            []byte
	PhotoContentType string
}

// Validate checks the fields in form order and returns the first failure
// as a *ValidationError.
func (in ProductInput) Validate() (price float64, quantity int, err error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return 0, 0, invalid("Name is Required")
	case strings.TrimSpace(in.Description) == "":
		return 0, 0, invalid("Description is Required")
	case strings.TrimSpace(in.Price) == "":
		return 0, 0, invalid("Price is Required")
	}

	price, perr := strconv.ParseFloat(strings.TrimSpace(in.Price), 64)
	if perr != nil || price <= 0 {
		return 0, 0, invalid("Price must be a positive number")
	}

	switch {
	case strings.TrimSpace(in.Category) == "":
		return 0, 0, invalid("Category is Required")
	case strings.TrimSpace(in.Quantity) == "":
		return 0, 0, invalid("Quantity is Required")
	}

	quantity, qerr := strconv.Atoi(strings.TrimSpace(in.Quantity))
	if qerr != nil || quantity < 0 {
		return 0, 0, invalid("Quantity must be a non-negative number")
	}

	if in.Photo != nil && int64(len(in.Photo)) > config.PhotoMaxBytes() {
		return 0, 0, invalid("photo is Required and should be less then 1mb")
	}
	return price, quantity, nil
}

func (in ProductInput) product() (*models.Product, error) {
	price, quantity, err := in.Validate()
	if err != nil {
		return nil, err
	}
	shipping, _ := strconv.ParseBool(strings.TrimSpace(in.Shipping))

	p := &models.Product{
		Name:        in.Name,
		Slug:        slug.Make(in.Name),
		Description: in.Description,
		Price:       price,
		CategoryID:  strings.TrimSpace(in.Category),
		Quantity:    quantity,
		Shipping:    shipping,
	}
	if in.Photo != nil {
		p.Photo = in.Photo
		p.PhotoContentType = in.PhotoContentType
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := in.product()
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	cache.Forget(ctx, cache.KeyProductCount)
	return p, nil
}

// UpdateProduct rewrites product id. The stored photo is replaced only
// when in carries a new one.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	p, err := in.product()
	if err != nil {
		return nil, err
	}
	p.ID = id
	return s.products.Update(ctx, p, in.Photo != nil)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	cache.Forget(ctx, cache.KeyProductCount)
	return nil
}

// Products returns the newest products with their categories.
func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	return s.products.Find(ctx, repositories.ProductQuery{Limit: ListLimit, Populate: true})
}

func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

func (s *CatalogService) ProductPhoto(ctx context.Context, id string) ([]byte, string, error) {
	return s.products.Photo(ctx, id)
}

// Filter selects products in any of categoryIDs and, when priceRange has
// exactly two values, priced within it inclusively.
func (s *CatalogService) Filter(ctx context.Context, categoryIDs []string, priceRange []float64) ([]models.Product, error) {
	var q repositories.ProductQuery
	if len(categoryIDs) > 0 {
		q.CategoryIDs = categoryIDs
	}
	if len(priceRange) == 2 {
		q.PriceRange = &[2]float64{priceRange[0], priceRange[1]}
	}
	return s.products.Find(ctx, q)
}

func (s *CatalogService) ProductCount(ctx context.Context) (int64, error) {
	return cache.Remember(ctx, cache.KeyProductCount, cache.TTL, s.products.Count)
}

// Page returns page (1-based) of PageSize products, newest first.
func (s *CatalogService) Page(ctx context.Context, page int) ([]models.Product, error) {
	if page < 1 {
		page = 1
	}
	return s.products.Find(ctx, repositories.ProductQuery{Skip: (page - 1) * PageSize, Limit: PageSize})
}

func (s *CatalogService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	return s.products.Find(ctx, repositories.ProductQuery{Keyword: keyword})
}

// Related returns up to RelatedLimit other products of categoryID.
func (s *CatalogService) Related(ctx context.Context, productID, categoryID string) ([]models.Product, error) {
	return s.products.Find(ctx, repositories.ProductQuery{
		CategoryIDs: []string{categoryID},
		ExcludeID:   productID,
		Limit:       RelatedLimit,
		Populate:    true,
	})
}

// ByCategorySlug resolves the category then loads its products.
func (s *CatalogService) ByCategorySlug(ctx context.Context, slug string) (*models.Category, []models.Product, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.products.Find(ctx, repositories.ProductQuery{CategoryIDs: []string{c.ID}, Populate: true})
	if err != nil {
		return nil, nil, err
	}
	return c, products, nil
}

// ─── Export ──────────────────────────────────────────────────────────────────

// Snapshot is the exported catalog. Photos are not included.
type Snapshot struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Categories  []models.Category `json:"categories"`
	Products    []models.Product  `json:"products"`
}

// Export writes a JSON snapshot of the catalog to path on disk and
// returns its URL.
func (s *CatalogService) Export(ctx context.Context, disk storage.Disk, path string) (string, error) {
	categories, err := s.categories.All(ctx)
	if err != nil {
		return "", fmt.Errorf("load categories: %w", err)
	}
	products, err := s.products.All(ctx)
	if err != nil {
		return "", fmt.Errorf("load products: %w", err)
	}

	data, err := json.MarshalIndent(Snapshot{
		GeneratedAt: time.Now().UTC(),
		Categories:  categories,
		Products:    products,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	if err := disk.Put(ctx, path, data, "application/json"); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return disk.URL(path), nil
}
