package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock is a listed security. Prices are maintained by an external feed.
type Stock struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Symbol        string          `gorm:"size:16;not null;uniqueIndex" json:"symbol"`
	CompanyName   string          `gorm:"size:255;not null" json:"company_name"`
	Sector        string          `gorm:"size:100" json:"sector,omitempty"`
	CurrentPrice  decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"current_price"`
	PreviousClose decimal.Decimal `gorm:"type:numeric(18,2);not null;default:0" json:"previous_close"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockPrice is one point of a stock's price history.
type StockPrice struct {
	gorm.Model
	StockID    uint            `gorm:"not null;index:idx_stock_prices_stock_recorded" json:"stock_id"`
	Stock      Stock           `json:"-"`
	Price      decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"price"`
	Volume     int64           `json:"volume"`
	RecordedAt time.Time       `gorm:"not null;index:idx_stock_prices_stock_recorded" json:"recorded_at"`
}
