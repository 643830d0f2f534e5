package models

import (
	"encoding/json"
	"time"
)

type OrderStatus string

const (
	StatusNotProcess OrderStatus = "Not Process"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "deliverd"
	StatusCancelled  OrderStatus = "cancel"
)

// OrderStatuses lists every accepted status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusNotProcess,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

// Valid reports whether s is one of OrderStatuses. Matching is exact.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order is recorded after a successful checkout. ProductIDs keeps the cart
// order and may repeat ids; Products is filled when the order is loaded
// for display.
type Order struct {
	ID         string      `gorm:"primaryKey;size:24"`
	ProductIDs []string    `gorm:"-"`
	Products   []Product   `gorm:"-"`
	BuyerID    string      `gorm:"index;size:24;not null"`
	Buyer      *User       `gorm:"-"`
	Payment    RawJSON     `gorm:"type:text"`
	Status     OrderStatus `gorm:"size:32;not null;default:'Not Process'"`
	CreatedAt  time.Time   `gorm:"index"`
	UpdatedAt  time.Time
}

// OrderProduct is the SQL join row keeping an order's cart positions.
type OrderProduct struct {
	OrderID   string `gorm:"primaryKey;size:24"`
	Position  int    `gorm:"primaryKey;autoIncrement:false"`
	ProductID string `gorm:"index;size:24;not null"`
}

type buyerJSON struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// MarshalJSON renders "products" and "buyer" populated when loaded and as
// ids otherwise. A populated buyer exposes only id and name.
func (o Order) MarshalJSON() ([]byte, error) {
	out := struct {
		ID        string      `json:"_id"`
		Products  interface{} `json:"products"`
		Buyer     interface{} `json:"buyer"`
		Payment   RawJSON     `json:"payment"`
		Status    OrderStatus `json:"status"`
		CreatedAt time.Time   `json:"createdAt"`
		UpdatedAt time.Time   `json:"updatedAt"`
	}{
		ID:        o.ID,
		Products:  o.ProductIDs,
		Buyer:     o.BuyerID,
		Payment:   o.Payment,
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}

	if o.Products != nil {
		out.Products = o.Products
	} else if o.ProductIDs == nil {
		out.Products = []string{}
	}
	if o.Buyer != nil {
		out.Buyer = buyerJSON{ID: o.Buyer.ID, Name: o.Buyer.Name}
	}
	return json.Marshal(out)
}
