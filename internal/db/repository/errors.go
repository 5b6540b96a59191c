package repository

import "errors"

// Storage-level conditions the service layer dispatches on.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
)
