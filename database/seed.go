package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"stock-portfolio/models"

	"gorm.io/gorm"
)

// Fixture is the JSON document accepted by Seed.
type Fixture struct {
	Users  []models.User       `json:"users"`
	Stocks []models.Stock      `json:"stocks"`
	Prices []models.StockPrice `json:"prices"`
	News   []models.News       `json:"news"`
}

func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Seed inserts the fixture. A user's opening balance defaults to its cash
// balance so the transaction log replays from the seeded amount.
func Seed(ctx context.Context, db *gorm.DB, f *Fixture) error {
	for i := range f.Users {
		if f.Users[i].OpeningBalance.IsZero() {
			f.Users[i].OpeningBalance = f.Users[i].CashBalance
		}
	}
	for i := range f.Stocks {
		f.Stocks[i].Symbol = strings.ToUpper(strings.TrimSpace(f.Stocks[i].Symbol))
	}
	for i := range f.News {
		f.News[i].StockSymbols = strings.ToUpper(strings.ReplaceAll(f.News[i].StockSymbols, " ", ""))
	}

	steps := []struct {
		name string
		data interface{}
	}{
		{"users", f.Users},
		{"stocks", f.Stocks},
		{"prices", f.Prices},
		{"news", f.News},
	}
	for _, s := range steps {
		if err := CreateInBatches(ctx, db, s.data, 100); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
	}
	return nil
}
