package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest covers malformed order input; detected before any
	// transaction is opened.
	ErrInvalidRequest = errors.New("invalid request")

	ErrItemNotFound      = errors.New("item not found")
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrEmailTaken = errors.New("email already registered")
	ErrSKUTaken   = errors.New("sku already exists")
	ErrNotFound   = errors.New("not found")
)

// ItemNotFoundError names the line item that aborted the order.
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("item %d not found", e.ItemID)
}

func (e *ItemNotFoundError) Unwrap() error { return ErrItemNotFound }

// InsufficientStockError names the offending item and what was observed
// under its row lock.
type InsufficientStockError struct {
	ItemID    int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
