// Package portfolio shapes a user's holdings, cash and trade history into
// the read models served by the API.
package portfolio

import (
	"context"
	"sort"
	"time"

	"stock-portfolio/models"
	"stock-portfolio/valuation"

	"github.com/shopspring/decimal"
)

// HoldingView is a holding priced at the stock's current price.
type HoldingView struct {
	ID            uint              `json:"id"`
	StockID       uint              `json:"stock_id"`
	Symbol        string            `json:"symbol"`
	CompanyName   string            `json:"company_name"`
	Quantity      int               `json:"quantity"`
	AveragePrice  valuation.Amount  `json:"average_price"`
	TotalInvested valuation.Amount  `json:"total_invested"`
	CurrentPrice  valuation.Amount  `json:"current_price"`
	CurrentValue  valuation.Amount  `json:"current_value"`
	UnrealizedPnL valuation.Amount  `json:"unrealized_pnl"`
	PnLPercent    valuation.Percent `json:"pnl_percent"`
}

// Summary is the portfolio overview. Holdings are ordered by current value,
// largest first.
type Summary struct {
	TotalInvested       valuation.Amount  `json:"totalInvested"`
	CurrentValue        valuation.Amount  `json:"currentValue"`
	TotalPnL            valuation.Amount  `json:"totalPnL"`
	TotalPnLPercent     valuation.Percent `json:"totalPnLPercent"`
	CashBalance         valuation.Amount  `json:"cashBalance"`
	TotalPortfolioValue valuation.Amount  `json:"totalPortfolioValue"`
	Holdings            []HoldingView     `json:"holdings"`
}

type TransactionView struct {
	ID              uint                   `json:"id"`
	Reference       string                 `json:"reference"`
	StockID         uint                   `json:"stock_id"`
	Symbol          string                 `json:"symbol"`
	CompanyName     string                 `json:"company_name"`
	Type            models.TransactionType `json:"transaction_type"`
	Quantity        int                    `json:"quantity"`
	PricePerShare   valuation.Amount       `json:"price_per_share"`
	TotalAmount     valuation.Amount       `json:"total_amount"`
	TransactionDate time.Time              `json:"transaction_date"`
}

// Valuate prices one holding. h.Stock must be loaded.
func Valuate(h models.Holding) HoldingView {
	v := valuation.Value(h.Quantity, h.TotalInvested, h.Stock.CurrentPrice)
	return HoldingView{
		ID:            h.ID,
		StockID:       h.StockID,
		Symbol:        h.Stock.Symbol,
		CompanyName:   h.Stock.CompanyName,
		Quantity:      h.Quantity,
		AveragePrice:  valuation.NewAmount(h.AveragePrice),
		TotalInvested: valuation.NewAmount(h.TotalInvested),
		CurrentPrice:  valuation.NewAmount(h.Stock.CurrentPrice),
		CurrentValue:  valuation.NewAmount(v.CurrentValue),
		UnrealizedPnL: valuation.NewAmount(v.UnrealizedPnL),
		PnLPercent:    valuation.NewPercent(v.PnLPercent),
	}
}

// ValuateAll prices holdings and orders them by current value, largest
// first. Rows with a non-positive quantity are skipped.
func ValuateAll(holdings []models.Holding) []HoldingView {
	views := make([]HoldingView, 0, len(holdings))
	for _, h := range holdings {
		if h.Quantity <= 0 {
			continue
		}
		views = append(views, Valuate(h))
	}
	sort.SliceStable(views, func(i, j int) bool {
		if c := views[i].CurrentValue.Cmp(views[j].CurrentValue.Decimal); c != 0 {
			return c > 0
		}
		return views[i].Symbol < views[j].Symbol
	})
	return views
}

// Summarize totals valuated holdings and adds the cash balance.
func Summarize(holdings []HoldingView, cash decimal.Decimal) Summary {
	invested, current := decimal.Zero, decimal.Zero
	for _, h := range holdings {
		invested = invested.Add(h.TotalInvested.Decimal)
		current = current.Add(h.CurrentValue.Decimal)
	}
	pnl := current.Sub(invested)

	if holdings == nil {
		holdings = []HoldingView{}
	}
	return Summary{
		TotalInvested:       valuation.NewAmount(invested),
		CurrentValue:        valuation.NewAmount(current),
		TotalPnL:            valuation.NewAmount(pnl),
		TotalPnLPercent:     valuation.NewPercent(valuation.ReturnPercent(pnl, invested)),
		CashBalance:         valuation.NewAmount(cash),
		TotalPortfolioValue: valuation.NewAmount(current.Add(cash)),
		Holdings:            holdings,
	}
}

func viewTransaction(t models.Transaction) TransactionView {
	return TransactionView{
		ID:              t.ID,
		Reference:       t.Reference,
		StockID:         t.StockID,
		Symbol:          t.Stock.Symbol,
		CompanyName:     t.Stock.CompanyName,
		Type:            t.Type,
		Quantity:        t.Quantity,
		PricePerShare:   valuation.NewAmount(t.PricePerShare),
		TotalAmount:     valuation.NewAmount(t.TotalAmount),
		TransactionDate: t.TransactionDate,
	}
}

// Reader is the read side of the ledger store.
type Reader interface {
	ListHoldings(ctx context.Context, userID uint) ([]models.Holding, error)
	ListTransactions(ctx context.Context, userID uint, limit int) ([]models.Transaction, error)
	CashBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
}

type Service struct {
	r Reader
}

func NewService(r Reader) *Service {
	return &Service{r: r}
}

func (s *Service) Holdings(ctx context.Context, userID uint) ([]HoldingView, error) {
	holdings, err := s.r.ListHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ValuateAll(holdings), nil
}

func (s *Service) Summary(ctx context.Context, userID uint) (*Summary, error) {
	cash, err := s.r.CashBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	holdings, err := s.Holdings(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := Summarize(holdings, cash)
	return &summary, nil
}

// Transactions returns the newest limit trades, newest first.
func (s *Service) Transactions(ctx context.Context, userID uint, limit int) ([]TransactionView, error) {
	txs, err := s.r.ListTransactions(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	views := make([]TransactionView, len(txs))
	for i, t := range txs {
		views[i] = viewTransaction(t)
	}
	return views, nil
}
