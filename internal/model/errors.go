// Package model provides core data types for orderdesk.
package model

import "errors"

// Error types for orderdesk operations
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrDuplicateRef        = errors.New("duplicate order ref")
	ErrInvalidRef          = errors.New("invalid order ref")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidDelivery     = errors.New("invalid delivery status")
	ErrInvalidSortKey      = errors.New("invalid sort key")
	ErrInvalidPageSize     = errors.New("page size must be a positive integer")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidPreset       = errors.New("unknown date preset")
	ErrInvalidFormat       = errors.New("invalid export format")
	ErrRequiredField       = errors.New("required field missing")
	ErrEmptyName           = errors.New("empty name not allowed")
	ErrSavedFilterNotFound = errors.New("saved filter not found")
	ErrNotInitialized      = errors.New("data directory not initialized (run 'orderdesk init')")
	ErrAlreadyInitialized  = errors.New("data directory already initialized")
)
