package models

// Category groups products. Slug is derived from Name and is the public
// lookup key.
type Category struct {
	ID   string `gorm:"primaryKey;size:24"             json:"_id"`
	Name string `gorm:"uniqueIndex;size:255;not null"  json:"name"`
	Slug string `gorm:"index;size:255"                 json:"slug"`
}
