package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotRegistered = errors.New("email is not registered")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWrongAnswer        = errors.New("wrong email or answer")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrCategoryExists     = errors.New("category already exists")
	ErrUnknownStatus      = errors.New("status is not recognized")
	ErrEmptyCart          = errors.New("cart is empty")
)

// ValidationError is a rejected input. Message is shown to the client as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }
