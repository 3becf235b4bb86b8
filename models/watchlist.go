package models

import "time"

type WatchlistEntry struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_stock" json:"user_id"`
	StockID uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_stock" json:"stock_id"`
	Stock   Stock     `json:"-"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (WatchlistEntry) TableName() string {
	return "watchlist"
}
