package models

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
)

// RawJSON holds a free-form JSON value (a user's address, a payment
// result). It is stored as text in SQL and as a native value in MongoDB.
type RawJSON []byte

func (j RawJSON) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(j)) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *RawJSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("models.RawJSON: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}

// IsZero reports whether j holds no value or JSON null.
func (j RawJSON) IsZero() bool {
	t := bytes.TrimSpace(j)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func (j RawJSON) Value() (driver.Value, error) {
	if j.IsZero() {
		return nil, nil
	}
	return string(j), nil
}

func (j *RawJSON) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = RawJSON(v)
	default:
		return fmt.Errorf("models.RawJSON: cannot scan %T", src)
	}
	return nil
}
