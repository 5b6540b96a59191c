package service

import "errors"

// Failures the handlers translate into HTTP statuses. Storage-level
// conditions (not found, duplicate email, insufficient stock) come
// from the repository package and pass through wrapped.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
)
