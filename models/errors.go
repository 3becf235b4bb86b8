package models

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the ledger and the query layer. Callers match
// them with errors.Is; call sites wrap them with context.
var (
	ErrValidation         = errors.New("validation failed")
	ErrInsufficientFunds  = errors.New("insufficient cash balance")
	ErrInsufficientShares = errors.New("insufficient shares to sell")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateEntry     = errors.New("already exists")
	ErrStoreFailure       = errors.New("store failure")
)

// ErrStockNotFound is the ErrNotFound returned when the missing row is a
// stock rather than a user or holding.
var ErrStockNotFound = fmt.Errorf("stock %w", ErrNotFound)
