package ledger

import (
	"context"

	"stock-portfolio/models"

	"github.com/shopspring/decimal"
)

// Tx is the set of ledger operations available inside one unit of work.
// Reads made through a Tx see, and lock, the rows the same unit of work
// later writes.
type Tx interface {
	GetStock(stockID uint) (*models.Stock, error)
	GetCashBalance(userID uint) (decimal.Decimal, error)
	// GetHolding returns nil, nil when the user has no position.
	GetHolding(userID, stockID uint) (*models.Holding, error)
	UpsertHolding(h *models.Holding) error
	DeleteHolding(userID, stockID uint) error
	DebitCash(userID uint, amount decimal.Decimal) error
	CreditCash(userID uint, amount decimal.Decimal) error
	AppendTransaction(t *models.Transaction) error
}

// UnitOfWork runs fn atomically. If fn returns an error, or ctx is
// cancelled before commit, nothing fn did through tx is kept.
type UnitOfWork interface {
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}

// Store owns users, holdings and the transaction log.
type Store interface {
	UnitOfWork
	ListHoldings(ctx context.Context, userID uint) ([]models.Holding, error)
	// ListTransactions returns the newest limit transactions, newest first.
	// A limit <= 0 returns the whole log in append order (ascending id).
	ListTransactions(ctx context.Context, userID uint, limit int) ([]models.Transaction, error)
}
