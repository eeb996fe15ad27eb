package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Standard error codes for API responses
const (
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeEmptyOrder        = "EMPTY_ORDER"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeDuplicateUsername = "DUPLICATE_USERNAME"
	ErrCodeBadCredentials    = "BAD_CREDENTIALS"
	ErrCodeMissingSKUColumn  = "MISSING_SKU_COLUMN"
)

// DomainError is a business-rule violation with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Common domain errors
var (
	ErrEmptyOrder        = NewDomainError(ErrCodeEmptyOrder, "No valid items in order")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrDuplicateUsername = NewDomainError(ErrCodeDuplicateUsername, "Username already exists")
	ErrBadCredentials    = NewDomainError(ErrCodeBadCredentials, "Invalid username or password")
	ErrMissingSKUColumn  = NewDomainError(ErrCodeMissingSKUColumn, "Lot Type Code column not found")
)

// NewProductNotFoundError reports a missing product reference in an order.
func NewProductNotFoundError(productID string) *DomainError {
	return NewDomainError(ErrCodeProductNotFound, fmt.Sprintf("Product %s not found", productID))
}

// NewInsufficientStockError reports a requested quantity above availability.
func NewInsufficientStockError(lotTypeCode string, available int) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock,
		fmt.Sprintf("Insufficient stock for %s. Available: %d", lotTypeCode, available))
}
