package ledger

import (
	"testing"
	"time"

	"stock-portfolio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id uint, at time.Time, kind models.TransactionType, stock uint, qty int, price string) models.Transaction {
	return models.Transaction{
		ID:              id,
		Reference:       "ref",
		StockID:         stock,
		Type:            kind,
		Quantity:        qty,
		PricePerShare:   dec(price),
		TotalAmount:     Amount(qty, dec(price)),
		TransactionDate: at,
	}
}

func TestReplayFollowsLogOrderNotDates(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	// Dates disagree with ids, as they do when writers' clocks drift.
	log := []models.Transaction{
		tx(3, t0.Add(-time.Minute), models.TransactionSell, 10, 15, "70.00"),
		tx(2, t0, models.TransactionBuy, 10, 5, "60.00"),
		tx(1, t0.Add(time.Second), models.TransactionBuy, 10, 10, "50.00"),
		tx(4, t0.Add(-time.Hour), models.TransactionBuy, 11, 2, "5.00"),
	}

	snap, err := Replay(dec("1000.00"), log)
	require.NoError(t, err)
	assert.Equal(t, "1240.00", snap.Cash.StringFixed(2))
	assert.NotContains(t, snap.Holdings, uint(10))
	require.Contains(t, snap.Holdings, uint(11))
	assert.Equal(t, 2, snap.Holdings[11].Quantity)
}

func TestReplayRejectsInconsistentLog(t *testing.T) {
	now := time.Now()
	_, err := Replay(dec("10"), []models.Transaction{tx(1, now, models.TransactionSell, 10, 1, "1.00")})
	assert.ErrorIs(t, err, models.ErrInsufficientShares)

	_, err = Replay(dec("10"), []models.Transaction{tx(1, now, "HOLD", 10, 1, "1.00")})
	assert.Error(t, err)
}
