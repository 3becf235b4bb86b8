package database

import (
	"context"
	"strings"
	"time"

	"stock-portfolio/models"

	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// List returns every stock ordered by symbol.
func (r *StockRepository) List(ctx context.Context) ([]models.Stock, error) {
	var stocks []models.Stock
	if err := r.db.WithContext(ctx).Order("symbol").Find(&stocks).Error; err != nil {
		return nil, storeError(err, "list stocks")
	}
	return stocks, nil
}

func (r *StockRepository) Get(ctx context.Context, id uint) (*models.Stock, error) {
	var stock models.Stock
	if err := r.db.WithContext(ctx).Take(&stock, id).Error; err != nil {
		return nil, stockError(err, id)
	}
	return &stock, nil
}

func (r *StockRepository) GetBySymbol(ctx context.Context, symbol string) (*models.Stock, error) {
	var stock models.Stock
	err := r.db.WithContext(ctx).Where("symbol = ?", strings.ToUpper(symbol)).Take(&stock).Error
	if err != nil {
		return nil, stockError(err, symbol)
	}
	return &stock, nil
}

// PriceHistory returns the recorded prices of a stock since the given time,
// oldest first.
func (r *StockRepository) PriceHistory(ctx context.Context, stockID uint, since time.Time) ([]models.StockPrice, error) {
	if _, err := r.Get(ctx, stockID); err != nil {
		return nil, err
	}

	var prices []models.StockPrice
	err := r.db.WithContext(ctx).
		Where("stock_id = ? AND recorded_at >= ?", stockID, since.UTC()).
		Order("recorded_at").
		Find(&prices).Error
	if err != nil {
		return nil, storeError(err, "price history")
	}
	return prices, nil
}

// RecordSnapshot appends the current price of every stock to the price
// history and returns the number of rows written.
func (r *StockRepository) RecordSnapshot(ctx context.Context, at time.Time) (int, error) {
	stocks, err := r.List(ctx)
	if err != nil {
		return 0, err
	}

	prices := make([]models.StockPrice, 0, len(stocks))
	for _, s := range stocks {
		prices = append(prices, models.StockPrice{
			StockID:    s.ID,
			Price:      s.CurrentPrice,
			RecordedAt: at,
		})
	}

	if err := CreateInBatches(ctx, r.db, prices, 100); err != nil {
		return 0, storeError(err, "record price snapshot")
	}
	return len(prices), nil
}
