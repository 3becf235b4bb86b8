package database

import (
	"context"
	"fmt"

	"stock-portfolio/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// List returns the user's watchlist with stock data, ordered by symbol.
func (r *WatchlistRepository) List(ctx context.Context, userID uint) ([]models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	err := r.db.WithContext(ctx).
		Joins("Stock").
		Where("watchlist.user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "Stock", Name: "symbol"}}).
		Find(&entries).Error
	if err != nil {
		return nil, storeError(err, "list watchlist")
	}
	return entries, nil
}

// Add puts a stock on the user's watchlist. Adding a stock twice leaves a
// single entry and returns models.ErrDuplicateEntry.
func (r *WatchlistRepository) Add(ctx context.Context, userID, stockID uint) error {
	db := r.db.WithContext(ctx)

	var stock models.Stock
	if err := db.Select("id").Take(&stock, stockID).Error; err != nil {
		return stockError(err, stockID)
	}

	entry := models.WatchlistEntry{UserID: userID, StockID: stockID}
	res := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return storeError(res.Error, "add to watchlist")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("stock %d on watchlist: %w", stockID, models.ErrDuplicateEntry)
	}
	return nil
}

// Remove deletes a watchlist entry and reports whether one existed.
func (r *WatchlistRepository) Remove(ctx context.Context, userID, stockID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Delete(&models.WatchlistEntry{})
	if res.Error != nil {
		return false, storeError(res.Error, "remove from watchlist")
	}
	return res.RowsAffected > 0, nil
}
