package domain

import "errors"

// Sentinel errors for the order-payment lifecycle. Transport maps them to
// HTTP statuses; services wrap them with context via fmt.Errorf and %w.
var (
	ErrValidation        = errors.New("invalid request")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrForbidden         = errors.New("access denied")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrDuplicateOrderID  = errors.New("duplicate order id")
)
