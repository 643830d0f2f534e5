package models

import "time"

const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User is a shop account. Email is unique and never changes after
// registration.
type User struct {
	ID        string    `gorm:"primaryKey;size:24"              json:"_id"`
	Name      string    `gorm:"size:255;not null"               json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"   json:"email"`
	Password  string    `gorm:"size:255;not null"               json:"-"`
	Phone     string    `gorm:"size:64"                         json:"phone"`
	Address   RawJSON   `gorm:"type:text"                       json:"address"`
	Answer    string    `gorm:"size:255"                        json:"-"`
	Role      int       `gorm:"not null;default:0"              json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
