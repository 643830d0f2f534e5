package repositories

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewID returns a fresh 24-hex id. Both stores use the same id shape so a
// client never sees which backend is running.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// CheckID returns ErrInvalidID unless id is 24 hex characters.
func CheckID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
