package gormdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (r *CategoryRepository) first(ctx context.Context, query string, args ...interface{}) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where(query, args...).First(&c).Error; err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *CategoryRepository) FindByName(ctx context.Context, name string) (*models.Category, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	c.ID = repositories.NewID()
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		c.ID = ""
		return fmt.Errorf("gormdb: insert category: %w", mapErr(err))
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id, name, slug string) (*models.Category, error) {
	if err := repositories.CheckID(id); err != nil {
		return nil, err
	}

	// MySQL reports zero affected rows for a no-op rename, so existence is
	// checked up front.
	if _, err := r.first(ctx, "id = ?", id); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "slug": slug}).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return r.first(ctx, "id = ?", id)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := repositories.CheckID(id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

func categoriesByID(ctx context.Context, db *gorm.DB, ids []string) (map[string]*models.Category, error) {
	out := make(map[string]*models.Category, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var cats []models.Category
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, err
	}
	for i := range cats {
		out[cats[i].ID] = &cats[i]
	}
	return out, nil
}
