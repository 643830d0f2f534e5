package models

import (
	"encoding/json"
	"time"
)

// Product is a catalog item. Photo is never part of the JSON form; it is
// served by its own endpoint.
type Product struct {
	ID               string    `gorm:"primaryKey;size:24"`
	Name             string    `gorm:"size:255;not null"`
	Slug             string    `gorm:"index;size:255"`
	Description      string    `gorm:"type:text;not null"`
	Price            float64   `gorm:"not null"`
	CategoryID       string    `gorm:"index;size:24;not null"`
	Category         *Category `gorm:"-"`
	Quantity         int       `gorm:"not null"`
	Photo            []byte
	PhotoContentType string `gorm:"size:100"`
	Shipping         bool
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

type productJSON struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Category    interface{} `json:"category"`
	Quantity    int         `json:"quantity"`
	Shipping    bool        `json:"shipping"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// MarshalJSON renders "category" as the populated category when loaded and
// as the bare category id otherwise.
func (p Product) MarshalJSON() ([]byte, error) {
	out := productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.CategoryID,
		Quantity:    p.Quantity,
		Shipping:    p.Shipping,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category != nil {
		out.Category = p.Category
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either form of "category".
func (p *Product) UnmarshalJSON(data []byte) error {
	var in struct {
		productJSON
		Category json.RawMessage `json:"category"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*p = Product{
		ID:          in.ID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Shipping:    in.Shipping,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}

	if len(in.Category) == 0 || string(in.Category) == "null" {
		return nil
	}
	var id string
	if err := json.Unmarshal(in.Category, &id); err == nil {
		p.CategoryID = id
		return nil
	}
	var c Category
	if err := json.Unmarshal(in.Category, &c); err != nil {
		return err
	}
	p.Category = &c
	p.CategoryID = c.ID
	return nil
}

// HasPhoto reports whether photo bytes are stored.
func (p Product) HasPhoto() bool { return len(p.Photo) > 0 }
