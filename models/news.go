package models

import "time"

// News is a market headline. StockSymbols is a comma separated list of the
// symbols the article mentions, e.g. "AAPL,MSFT".
type News struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:500;not null" json:"title"`
	Summary      string    `gorm:"type:text" json:"summary"`
	Source       string    `gorm:"size:100" json:"source"`
	URL          string    `gorm:"size:1000" json:"url"`
	StockSymbols string    `gorm:"size:255" json:"stock_symbols"`
	PublishedAt  time.Time `gorm:"not null;index" json:"published_at"`
}

func (News) TableName() string {
	return "news"
}
