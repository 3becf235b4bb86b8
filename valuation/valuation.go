// Package valuation holds the pure pricing arithmetic used to present
// holdings, stocks and portfolio totals. Nothing here touches storage.
package valuation

import "github.com/shopspring/decimal"

// Places is the number of fractional digits monetary and percentage
// outputs are rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// HoldingValue is the market view of a single position.
type HoldingValue struct {
	CurrentValue  decimal.Decimal
	UnrealizedPnL decimal.Decimal
	PnLPercent    decimal.Decimal
}

// Value prices a position of quantity shares with the given cost basis at
// currentPrice.
func Value(quantity int, totalInvested, currentPrice decimal.Decimal) HoldingValue {
	current := decimal.NewFromInt(int64(quantity)).Mul(currentPrice).Round(Places)
	pnl := current.Sub(totalInvested).Round(Places)
	return HoldingValue{
		CurrentValue:  current,
		UnrealizedPnL: pnl,
		PnLPercent:    ReturnPercent(pnl, totalInvested),
	}
}

// Change returns the day's absolute and percentage move. The percentage is
// zero when there is no previous close.
func Change(currentPrice, previousClose decimal.Decimal) (amount, percent decimal.Decimal) {
	diff := currentPrice.Sub(previousClose)
	amount = diff.Round(Places)
	if previousClose.IsZero() {
		return amount, decimal.Zero
	}
	return amount, diff.Div(previousClose).Mul(hundred).Round(Places)
}

// ReturnPercent is gain as a percentage of invested. It is zero unless
// invested is positive.
func ReturnPercent(gain, invested decimal.Decimal) decimal.Decimal {
	if !invested.IsPositive() {
		return decimal.Zero
	}
	return gain.Div(invested).Mul(hundred).Round(Places)
}
