package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"stock-portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInBatches(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	assert.ErrorIs(t, CreateInBatches(ctx, db, []models.News{}, 0), ErrInvalidBatchSize)
	assert.ErrorIs(t, CreateInBatches(ctx, db, models.News{}, 10), ErrInvalidData)
	assert.NoError(t, CreateInBatches(ctx, db, []models.News{}, 10))

	stocks := make([]models.Stock, 0, 25)
	for _, sym := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M"} {
		stocks = append(stocks, models.Stock{Symbol: sym, CompanyName: sym, CurrentPrice: d("1"), PreviousClose: d("1")})
	}
	require.NoError(t, CreateInBatches(ctx, db, stocks, 5))

	var count int64
	require.NoError(t, db.Model(&models.Stock{}).Count(&count).Error)
	assert.EqualValues(t, len(stocks), count)

	// A failing chunk rolls back the chunks before it.
	dupes := []models.Stock{
		{Symbol: "X", CompanyName: "X"},
		{Symbol: "A", CompanyName: "dupe"},
	}
	assert.Error(t, CreateInBatches(ctx, db, dupes, 1))
	require.NoError(t, db.Model(&models.Stock{}).Count(&count).Error)
	assert.EqualValues(t, len(stocks), count)
}

const fixtureJSON = `{
  "users": [{"name": "Demo", "email": "demo@example.com", "cash_balance": "10000.00"}],
  "stocks": [
    {"symbol": " aapl ", "company_name": "Apple Inc.", "sector": "Technology", "current_price": "190.10", "previous_close": "188.00"},
    {"symbol": "MSFT", "company_name": "Microsoft", "current_price": "410.00", "previous_close": "412.50"}
  ],
  "prices": [{"stock_id": 1, "price": "187.00", "recorded_at": "2026-01-02T22:00:00Z"}],
  "news": [{"title": "Earnings", "stock_symbols": "aapl, msft", "published_at": "2026-01-03T08:00:00Z"}]
}`

func TestSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o600))

	f, err := LoadFixture(path)
	require.NoError(t, err)

	db := newTestDB(t)
	require.NoError(t, Seed(context.Background(), db, f))

	var user models.User
	require.NoError(t, db.Take(&user).Error)
	assert.Equal(t, "10000.00", user.CashBalance.StringFixed(2))
	assert.Equal(t, "10000.00", user.OpeningBalance.StringFixed(2))

	stock, err := NewStockRepository(db).GetBySymbol(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", stock.CompanyName)

	var price models.StockPrice
	require.NoError(t, db.Take(&price).Error)
	assert.Equal(t, stock.ID, price.StockID)

	news, err := NewNewsRepository(db).BySymbol(context.Background(), "MSFT", 5)
	require.NoError(t, err)
	require.Len(t, news, 1)
	assert.Equal(t, "AAPL,MSFT", news[0].StockSymbols)
}

func TestLoadFixtureErrors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadFixture(path)
	assert.Error(t, err)
}
