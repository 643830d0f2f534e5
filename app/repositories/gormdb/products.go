package gormdb

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

// photoColumns are never loaded outside Photo.
var photoColumns = []string{"photo", "photo_content_type"}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer metrics.ObserveDBQuery("product.create", time.Now())

	if err := repositories.CheckID(p.CategoryID); err != nil {
		return err
	}

	p.ID = repositories.NewID()
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		p.ID = ""
		return fmt.Errorf("gormdb: insert product: %w", mapErr(err))
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *models.Product, replacePhoto bool) (*models.Product, error) {
	if err := repositories.CheckID(p.ID); err != nil {
		return nil, err
	}
	if err := repositories.CheckID(p.CategoryID); err != nil {
		return nil, err
	}

	cols := map[string]interface{}{
		"name":        p.Name,
		"slug":        p.Slug,
		"description": p.Description,
		"price":       p.Price,
		"category_id": p.CategoryID,
		"quantity":    p.Quantity,
		"shipping":    p.Shipping,
		"updated_at":  time.Now().UTC(),
	}
	if replacePhoto {
		cols["photo"] = p.Photo
		cols["photo_content_type"] = p.PhotoContentType
	}

	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Updates(cols)
	if res.Error != nil {
		return nil, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}

	var out models.Product
	if err := r.db.WithContext(ctx).Omit(photoColumns...).Where("id = ?", p.ID).First(&out).Error; err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := repositories.CheckID(id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

func (r *ProductRepository) query(ctx context.Context, q repositories.ProductQuery) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Model(&models.Product{}).Omit(photoColumns...)

	if len(q.CategoryIDs) > 0 {
		for _, id := range q.CategoryIDs {
			if err := repositories.CheckID(id); err != nil {
				return nil, err
			}
		}
		tx = tx.Where("category_id IN ?", q.CategoryIDs)
	}
	if q.PriceRange != nil {
		tx = tx.Where("price >= ? AND price <= ?", q.PriceRange[0], q.PriceRange[1])
	}
	if q.Keyword != "" {
		pattern := likePattern(q.Keyword)
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if q.ExcludeID != "" {
		if err := repositories.CheckID(q.ExcludeID); err != nil {
			return nil, err
		}
		tx = tx.Where("id <> ?", q.ExcludeID)
	}

	tx = tx.Order("created_at desc")
	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx, nil
}

func (r *ProductRepository) Find(ctx context.Context, q repositories.ProductQuery) ([]models.Product, error) {
	defer metrics.ObserveDBQuery("product.find", time.Now())

	tx, err := r.query(ctx, q)
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}

	if q.Populate {
		if err := r.populate(ctx, products); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func (r *ProductRepository) populate(ctx context.Context, products []models.Product) error {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}

	cats, err := categoriesByID(ctx, r.db, ids)
	if err != nil {
		return fmt.Errorf("gormdb: populate categories: %w", err)
	}
	for i := range products {
		products[i].Category = cats[products[i].CategoryID]
	}
	return nil
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).Omit(photoColumns...).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, mapErr(err)
	}

	products := []models.Product{p}
	if err := r.populate(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *ProductRepository) Photo(ctx context.Context, id string) ([]byte, string, error) {
	if err := repositories.CheckID(id); err != nil {
		return nil, "", err
	}

	var p models.Product
	err := r.db.WithContext(ctx).Select("id", "photo", "photo_content_type").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, "", mapErr(err)
	}
	return p.Photo, p.PhotoContentType, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	return r.Find(ctx, repositories.ProductQuery{Populate: true})
}

func productsByID(ctx context.Context, db *gorm.DB, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := db.WithContext(ctx).Omit(photoColumns...).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}
