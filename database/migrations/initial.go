package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_users_table", &table{model: &models.User{}, name: "users"})
	migration.Register("20260101000001_create_categories_table", &table{model: &models.Category{}, name: "categories"})
	migration.Register("20260101000002_create_products_table", &table{model: &models.Product{}, name: "products"})
	migration.Register("20260101000003_create_orders_table", &table{model: &models.Order{}, name: "orders"})
	migration.Register("20260101000004_create_order_products_table", &table{model: &models.OrderProduct{}, name: "order_products"})
}

// table creates one model's table and drops it on rollback.
type table struct {
	model interface{}
	name  string
}

func (m *table) Up(db *gorm.DB) error {
	return db.AutoMigrate(m.model)
}

func (m *table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(m.name)
}
