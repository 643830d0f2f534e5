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

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	defer metrics.ObserveDBQuery("user.create", time.Now())

	u.ID = repositories.NewID()
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		u.ID = ""
		return fmt.Errorf("gormdb: insert user: %w", mapErr(err))
	}
	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := repositories.CheckID(id); err != nil {
		return nil, err
	}
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("user.find_by_email", time.Now())
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) FindByEmailAndAnswer(ctx context.Context, email, answer string) (*models.User, error) {
	return r.first(ctx, "email = ? AND answer = ?", email, answer)
}

func (r *UserRepository) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if err := repositories.CheckID(u.ID); err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"name":       u.Name,
		"phone":      u.Phone,
		"address":    u.Address,
		"password":   u.Password,
		"role":       u.Role,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return nil, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return r.FindByID(ctx, u.ID)
}

func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Omit("password", "answer").
		Order("created_at desc").
		Find(&users).Error
	return users, err
}
