// Package validate runs struct-tag validation through go-playground/validator
// and renders failures as a field → message map keyed by JSON field name.
//
//	type Input struct {
//	    Email string `json:"email" validate:"required,email"`
//	}
//	if errs := validate.Struct(in); validate.HasErrors(errs) { ... }
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// Struct validates s and returns one message per failing field. The map is
// empty when s is valid.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := engine().Struct(s)
	if err == nil {
		return errs
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs["_"] = err.Error()
		return errs
	}

	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe)
		}
	}
	return errs
}

// Var validates a single value against tag, e.g. Var(email, "email").
func Var(value interface{}, tag string) bool {
	return engine().Var(value, tag) == nil
}

// Email reports whether s is a well-formed email address.
func Email(s string) bool {
	return Var(s, "required,email")
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The %s must be one of: %s.", fe.Field(), fe.Param())
	case "len":
		return fmt.Sprintf("The %s must have %s items.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s is invalid.", fe.Field())
	}
}
