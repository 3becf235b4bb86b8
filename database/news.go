package database

import (
	"context"
	"strings"

	"stock-portfolio/models"

	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Latest(ctx context.Context, limit int) ([]models.News, error) {
	var news []models.News
	err := r.db.WithContext(ctx).Order("published_at DESC").Order("id DESC").Limit(limit).Find(&news).Error
	if err != nil {
		return nil, storeError(err, "latest news")
	}
	return news, nil
}

// BySymbol returns the newest articles whose symbol list contains symbol as
// a whole entry, so "AA" does not match "AAPL".
func (r *NewsRepository) BySymbol(ctx context.Context, symbol string, limit int) ([]models.News, error) {
	pattern := "%," + strings.ToUpper(strings.TrimSpace(symbol)) + ",%"

	var news []models.News
	err := r.db.WithContext(ctx).
		Where("(',' || UPPER(REPLACE(stock_symbols, ' ', '')) || ',') LIKE ?", pattern).
		Order("published_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&news).Error
	if err != nil {
		return nil, storeError(err, "news by symbol")
	}
	return news, nil
}
