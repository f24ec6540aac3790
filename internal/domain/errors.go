package domain

import "errors"

// Errors shared by every service. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAdjustment = errors.New("balance cannot go negative")
	ErrInvalidSlot       = errors.New("item does not fit slot")
	ErrNotOwned          = errors.New("item not owned")
)
