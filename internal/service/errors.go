package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a checkout with no items.
	ErrEmptyCart = errors.New("Cart is empty")

	// ErrPaymentNotCompleted rejects verification of a session the gateway
	// has not recorded as paid. Safe to retry once payment completes.
	ErrPaymentNotCompleted = errors.New("Payment not completed")
)

// ProductNotFoundError names a cart item whose product is not in the catalog.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product not found: %s", e.ProductID)
}

// SoldOutError names a product whose sold-out flag is set.
type SoldOutError struct {
	ProductName string
}

func (e *SoldOutError) Error() string {
	return fmt.Sprintf("%s is sold out", e.ProductName)
}

// InvalidSizeError names a product and a size label with no matching price tier.
type InvalidSizeError struct {
	ProductName string
	Size        string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("Invalid size for %s: %s", e.ProductName, e.Size)
}

// SessionNotFoundError means the gateway has no session for the given id.
// Surfaced to clients as a generic failure, never a 400.
type SessionNotFoundError struct {
	SessionID string
}

func (e *SessionNotFoundError) Error() string {
	return fmt.Sprintf("checkout session not found: %s", e.SessionID)
}

// IsValidationError reports whether err is a cart validation failure whose
// message is safe to return to the client verbatim.
func IsValidationError(err error) bool {
	var notFound *ProductNotFoundError
	var soldOut *SoldOutError
	var badSize *InvalidSizeError
	return errors.Is(err, ErrEmptyCart) ||
		errors.As(err, &notFound) ||
		errors.As(err, &soldOut) ||
		errors.As(err, &badSize)
}
