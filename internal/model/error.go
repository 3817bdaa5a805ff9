package model

import "errors"

var (
	ErrInvalidEmail  = errors.New("invalid email format")
	ErrInvalidPhone  = errors.New("invalid phone format")
	ErrNegativePrice = errors.New("price must not be negative")
	ErrBadQuantity   = errors.New("quantity must be positive")
)
