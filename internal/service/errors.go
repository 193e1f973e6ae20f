package service

import "errors"

// Sentinel errors the handlers translate to HTTP statuses.
var (
	ErrValidation         = errors.New("missing or invalid fields")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
