// Package gormdb implements the repositories on gorm for the SQL drivers
// (sqlite, postgres, mysql, sqlserver).
package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
)

// Models lists every table the repositories use, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderProduct{},
	}
}

func NewStore(db *gorm.DB) *repositories.Store {
	return &repositories.Store{
		Users:      NewUserRepository(db),
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Orders:     NewOrderRepository(db),
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case isDuplicate(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	default:
		return err
	}
}

// isDuplicate recognises unique violations from every supported driver,
// with or without gorm's error translation.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique index")
}

// likePattern escapes s for a LIKE ... ESCAPE '!' clause.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")
	return "%" + strings.ToLower(r.Replace(s)) + "%"
}
