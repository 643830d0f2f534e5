package seeders_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/app/repositories/gormdb"
	"github.com/shashiranjanraj/bazaar/database/seeders"
)

func TestSeedCatalogIsRepeatable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(gormdb.Models()...))

	store := gormdb.NewStore(db)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, seeders.Run(ctx, store, &out))
	require.NoError(t, seeders.Run(ctx, store, &out, "catalog"))
	assert.Contains(t, out.String(), "seeding catalog ... ok")

	categories, err := store.Categories.All(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	n, err := store.Products.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	p, err := store.Products.FindBySlug(ctx, "cafe-mug-set")
	require.NoError(t, err)
	assert.Equal(t, "home-kitchen", p.Category.Slug)
}

func TestRunRejectsUnknownSeeder(t *testing.T) {
	var out bytes.Buffer
	err := seeders.Run(context.Background(), nil, &out, "nope")
	assert.ErrorContains(t, err, `unknown seeder "nope"`)
	assert.Empty(t, out.String())
	assert.Contains(t, seeders.Names(), "catalog")
}
