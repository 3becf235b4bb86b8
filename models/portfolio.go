package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:255" json:"email"`
	// CashBalance is only ever written by the trade executor.
	CashBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"cash_balance"`
	// OpeningBalance is the cash the account was funded with; replaying
	// the transaction log from it reproduces CashBalance.
	OpeningBalance decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Holding is a user's open position in one stock. A row exists only while
// Quantity > 0.
type Holding struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserID        uint            `gorm:"not null;uniqueIndex:idx_holdings_user_stock" json:"user_id"`
	StockID       uint            `gorm:"not null;uniqueIndex:idx_holdings_user_stock" json:"stock_id"`
	Stock         Stock           `json:"-"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	AveragePrice  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"average_price"`
	TotalInvested decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_invested"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Transaction is an append-only trade record.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Reference       string          `gorm:"size:36;not null;uniqueIndex" json:"reference"`
	UserID          uint            `gorm:"not null;index:idx_transactions_user_date" json:"user_id"`
	StockID         uint            `gorm:"not null" json:"stock_id"`
	Stock           Stock           `json:"-"`
	Type            TransactionType `gorm:"column:transaction_type;size:4;not null" json:"transaction_type"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PricePerShare   decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price_per_share"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"total_amount"`
	TransactionDate time.Time       `gorm:"not null;index:idx_transactions_user_date" json:"transaction_date"`
}
