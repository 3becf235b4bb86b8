package ledger

import (
	"testing"

	"stock-portfolio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPositionBuyWeightedAverage(t *testing.T) {
	p := Position{}.Buy(10, dec("50.00"))
	assert.Equal(t, 10, p.Quantity)
	assert.True(t, dec("50").Equal(p.AveragePrice))
	assert.True(t, dec("500").Equal(p.TotalInvested))

	p = p.Buy(5, dec("60.00"))
	assert.Equal(t, 15, p.Quantity)
	assert.True(t, dec("800").Equal(p.TotalInvested))
	assert.Equal(t, "53.3333", p.AveragePrice.StringFixed(4))
}

func TestPositionBuyAverageMatchesFormula(t *testing.T) {
	cases := []struct {
		q1, q2 int
		p1, p2 string
	}{
		{1, 1, "10.00", "20.00"},
		{3, 7, "12.34", "56.78"},
		{100, 1, "0.01", "999.99"},
		{9, 3, "33.33", "33.34"},
	}
	for _, tc := range cases {
		p := Position{}.Buy(tc.q1, dec(tc.p1)).Buy(tc.q2, dec(tc.p2))

		invested := dec(tc.p1).Mul(decimal.NewFromInt(int64(tc.q1))).
			Add(dec(tc.p2).Mul(decimal.NewFromInt(int64(tc.q2))))
		want := invested.Div(decimal.NewFromInt(int64(tc.q1 + tc.q2))).Round(4)

		assert.True(t, invested.Equal(p.TotalInvested), "invested %s != %s", p.TotalInvested, invested)
		assert.True(t, want.Equal(p.AveragePrice), "average %s != %s", p.AveragePrice, want)
	}
}

func TestPositionSell(t *testing.T) {
	p := Position{}.Buy(10, dec("50.00")).Buy(5, dec("60.00"))

	partial, err := p.Sell(5)
	require.NoError(t, err)
	assert.Equal(t, 10, partial.Quantity)
	assert.Equal(t, "533.33", partial.TotalInvested.StringFixed(2))
	assert.True(t, p.AveragePrice.Equal(partial.AveragePrice), "average price must not move on sell")

	closed, err := partial.Sell(10)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed())
	assert.True(t, closed.TotalInvested.IsZero())

	_, err = partial.Sell(11)
	assert.ErrorIs(t, err, models.ErrInsufficientShares)
}

func TestAmountRoundsToCents(t *testing.T) {
	assert.Equal(t, "100.01", Amount(3, dec("33.335")).StringFixed(2))
	assert.Equal(t, "1050.00", Amount(15, dec("70")).StringFixed(2))
}
