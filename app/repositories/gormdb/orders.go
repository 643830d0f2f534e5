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

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	defer metrics.ObserveDBQuery("order.create", time.Now())

	for _, id := range append([]string{o.BuyerID}, o.ProductIDs...) {
		if err := repositories.CheckID(id); err != nil {
			return err
		}
	}
	if o.Status == "" {
		o.Status = models.StatusNotProcess
	}

	o.ID = repositories.NewID()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		if len(o.ProductIDs) == 0 {
			return nil
		}

		rows := make([]models.OrderProduct, 0, len(o.ProductIDs))
		for i, pid := range o.ProductIDs {
			rows = append(rows, models.OrderProduct{OrderID: o.ID, Position: i, ProductID: pid})
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		o.ID = ""
		return fmt.Errorf("gormdb: insert order: %w", mapErr(err))
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	if err := repositories.CheckID(id); err != nil {
		return nil, err
	}

	var o models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, mapErr(err)
	}

	orders := []models.Order{o}
	if err := r.loadProductIDs(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) ByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	if err := repositories.CheckID(buyerID); err != nil {
		return nil, err
	}
	return r.find(ctx, r.db.WithContext(ctx).Where("buyer_id = ?", buyerID))
}

func (r *OrderRepository) All(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *OrderRepository) find(ctx context.Context, tx *gorm.DB) ([]models.Order, error) {
	orders := []models.Order{}
	if err := tx.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	if err := r.loadProductIDs(ctx, orders); err != nil {
		return nil, err
	}

	var productIDs, buyerIDs []string
	for _, o := range orders {
		productIDs = append(productIDs, o.ProductIDs...)
		buyerIDs = append(buyerIDs, o.BuyerID)
	}

	products, err := productsByID(ctx, r.db, productIDs)
	if err != nil {
		return nil, fmt.Errorf("gormdb: populate products: %w", err)
	}
	buyers, err := usersByID(ctx, r.db, buyerIDs)
	if err != nil {
		return nil, fmt.Errorf("gormdb: populate buyers: %w", err)
	}

	for i := range orders {
		orders[i].Products = make([]models.Product, 0, len(orders[i].ProductIDs))
		for _, pid := range orders[i].ProductIDs {
			// products deleted after checkout drop out of the populated list
			if p, ok := products[pid]; ok {
				orders[i].Products = append(orders[i].Products, p)
			}
		}
		orders[i].Buyer = buyers[orders[i].BuyerID]
	}
	return orders, nil
}

// loadProductIDs fills ProductIDs from the join table in cart order.
func (r *OrderRepository) loadProductIDs(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
		orders[i].ProductIDs = []string{}
	}

	var rows []models.OrderProduct
	err := r.db.WithContext(ctx).Where("order_id IN ?", ids).Order("order_id, position").Find(&rows).Error
	if err != nil {
		return fmt.Errorf("gormdb: order products: %w", err)
	}
	for _, row := range rows {
		i := index[row.OrderID]
		orders[i].ProductIDs = append(orders[i].ProductIDs, row.ProductID)
	}
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if err := repositories.CheckID(id); err != nil {
		return nil, err
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": string(status), "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repositories.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func usersByID(ctx context.Context, db *gorm.DB, ids []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := db.WithContext(ctx).Select("id", "name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = &users[i]
	}
	return out, nil
}
