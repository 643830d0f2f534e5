package migration_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type addWidgetIndex struct{}

func (addWidgetIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_widgets_name ON widgets(name)").Error
}
func (addWidgetIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_widgets_name").Error
}

func openDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := migration.NewWith(db, &out, []migration.Entry{
		{Name: "20260101000001_add_widget_index", Migration: addWidgetIndex{}},
		{Name: "20260101000000_create_widgets", Migration: createWidgets{}},
	})

	applied, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_create_widgets", "20260101000001_add_widget_index"}, applied)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	applied, err = r.Run()
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Contains(t, out.String(), "Nothing to migrate.")

	status, err := r.Status()
	require.NoError(t, err)
	require.Len(t, status, 2)
	assert.True(t, status[0].Ran)
	assert.Equal(t, 1, status[0].Batch)

	rolled, err := r.Rollback()
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000001_add_widget_index", "20260101000000_create_widgets"}, rolled)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestRunWithoutMigrations(t *testing.T) {
	_, err := migration.NewWith(openDB(t), nil, nil).Run()
	assert.ErrorIs(t, err, migration.ErrNoMigrations)
}
