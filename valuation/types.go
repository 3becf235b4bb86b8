package valuation

import "github.com/shopspring/decimal"

// Amount is a monetary value that crosses the API boundary as a string with
// exactly two fractional digits, e.g. "1250.00".
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{d} }

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(Places) + `"`), nil
}

// Percent is a percentage rendered as a JSON number with two fractional
// digits, e.g. 12.50.
type Percent struct {
	decimal.Decimal
}

func NewPercent(d decimal.Decimal) Percent { return Percent{d} }

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(Places)), nil
}
