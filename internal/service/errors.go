package service

import (
	"errors"
	"fmt"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/repo"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrUnauthorized      = errors.New("unauthorized")       // 401
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 409
	ErrPixNotConfigured  = errors.New("pix not configured") // 422
)

// InsufficientStockError carries the per-product shortfall details so the
// client can report exactly which lines failed.
type InsufficientStockError struct {
	Shortfalls []repo.StockShortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d product(s)", len(e.Shortfalls))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
