package migrations_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "github.com/shashiranjanraj/bazaar/database/migrations"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

func TestSchemaUpAndDown(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	r := migration.New(db, io.Discard)
	ran, err := r.Run()
	require.NoError(t, err)
	assert.Len(t, ran, 5)

	for _, name := range []string{"users", "categories", "products", "orders", "order_products"} {
		assert.True(t, db.Migrator().HasTable(name), name)
	}

	rolled, err := r.Rollback()
	require.NoError(t, err)
	assert.Len(t, rolled, 5)
	assert.False(t, db.Migrator().HasTable("orders"))
}
