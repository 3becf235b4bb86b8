package ledger

import (
	"fmt"

	"stock-portfolio/models"

	"github.com/shopspring/decimal"
)

const (
	moneyPlaces   = 2
	averagePlaces = 4
)

// Position is the cost-basis state of one holding.
type Position struct {
	Quantity      int
	AveragePrice  decimal.Decimal
	TotalInvested decimal.Decimal
}

func positionOf(h *models.Holding) Position {
	if h == nil {
		return Position{}
	}
	return Position{Quantity: h.Quantity, AveragePrice: h.AveragePrice, TotalInvested: h.TotalInvested}
}

// Amount is the cash value of quantity shares at price.
func Amount(quantity int, price decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantity)).Mul(price).Round(moneyPlaces)
}

// Buy adds quantity shares bought at price, recomputing the weighted
// average cost.
func (p Position) Buy(quantity int, price decimal.Decimal) Position {
	invested := p.TotalInvested.Add(Amount(quantity, price))
	next := Position{Quantity: p.Quantity + quantity, TotalInvested: invested}
	if p.Quantity == 0 {
		next.AveragePrice = price
	} else {
		next.AveragePrice = invested.Div(decimal.NewFromInt(int64(next.Quantity))).Round(averagePlaces)
	}
	return next
}

// Sell removes quantity shares. The cost basis shrinks in proportion to the
// shares sold and the average price is left as is. Selling the whole
// position returns the zero Position.
func (p Position) Sell(quantity int) (Position, error) {
	if quantity > p.Quantity {
		return p, fmt.Errorf("%w: holding %d, requested %d", models.ErrInsufficientShares, p.Quantity, quantity)
	}
	remaining := p.Quantity - quantity
	if remaining == 0 {
		return Position{}, nil
	}
	invested := p.TotalInvested.
		Mul(decimal.NewFromInt(int64(remaining))).
		Div(decimal.NewFromInt(int64(p.Quantity))).
		Round(moneyPlaces)
	return Position{Quantity: remaining, AveragePrice: p.AveragePrice, TotalInvested: invested}, nil
}

func (p Position) IsClosed() bool { return p.Quantity == 0 }
