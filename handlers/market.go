package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-portfolio/cache"
	"stock-portfolio/models"
	"stock-portfolio/valuation"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryDays = 30
	maxHistoryDays     = 3650
)

// StockView is a stock with the day's change.
type StockView struct {
	ID            uint              `json:"id"`
	Symbol        string            `json:"symbol"`
	CompanyName   string            `json:"company_name"`
	Sector        string            `json:"sector,omitempty"`
	CurrentPrice  valuation.Amount  `json:"current_price"`
	PreviousClose valuation.Amount  `json:"previous_close"`
	ChangeAmount  valuation.Amount  `json:"change_amount"`
	ChangePercent valuation.Percent `json:"change_percent"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func viewStock(s models.Stock) StockView {
	amount, pct := valuation.Change(s.CurrentPrice, s.PreviousClose)
	return StockView{
		ID:            s.ID,
		Symbol:        s.Symbol,
		CompanyName:   s.CompanyName,
		Sector:        s.Sector,
		CurrentPrice:  valuation.NewAmount(s.CurrentPrice),
		PreviousClose: valuation.NewAmount(s.PreviousClose),
		ChangeAmount:  valuation.NewAmount(amount),
		ChangePercent: valuation.NewPercent(pct),
		UpdatedAt:     s.UpdatedAt,
	}
}

type PricePoint struct {
	Price      valuation.Amount `json:"price"`
	Volume     int64            `json:"volume"`
	RecordedAt time.Time        `json:"recorded_at"`
}

type StockStore interface {
	List(ctx context.Context) ([]models.Stock, error)
	Get(ctx context.Context, id uint) (*models.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*models.Stock, error)
	PriceHistory(ctx context.Context, stockID uint, since time.Time) ([]models.StockPrice, error)
}

// GetStocks lists every stock ordered by symbol.
func (h *Handler) GetStocks(c *gin.Context) {
	ctx := c.Request.Context()
	stocks, err := cache.Fetch(ctx, h.cache, h.log, "stocks:all", h.cacheTTL, func() ([]StockView, error) {
		stocks, err := h.stocks.List(ctx)
		if err != nil {
			return nil, err
		}
		views := make([]StockView, len(stocks))
		for i, s := range stocks {
			views[i] = viewStock(s)
		}
		return views, nil
	})
	if err != nil {
		h.fail(c, err, "Failed to fetch stocks")
		return
	}
	ok(c, stocks)
}

func (h *Handler) GetStock(c *gin.Context) {
	var uri stockURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.fail(c, badRequest(err, "Invalid stock ID"), "Failed to fetch stock")
		return
	}
	id := uri.ID

	ctx := c.Request.Context()
	stock, err := cache.Fetch(ctx, h.cache, h.log, fmt.Sprintf("stocks:%d", id), h.cacheTTL, func() (StockView, error) {
		s, err := h.stocks.Get(ctx, id)
		if err != nil {
			return StockView{}, err
		}
		return viewStock(*s), nil
	})
	if err != nil {
		h.fail(c, stockNotFound(err), "Failed to fetch stock")
		return
	}
	ok(c, stock)
}

func (h *Handler) GetStockBySymbol(c *gin.Context) {
	var uri symbolURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.fail(c, badRequest(err, "Invalid stock symbol"), "Failed to fetch stock")
		return
	}

	s, err := h.stocks.GetBySymbol(c.Request.Context(), strings.ToUpper(uri.Symbol))
	if err != nil {
		h.fail(c, stockNotFound(err), "Failed to fetch stock")
		return
	}
	ok(c, viewStock(*s))
}

// GetPriceHistory returns the recorded prices of the last ?days days,
// oldest first.
func (h *Handler) GetPriceHistory(c *gin.Context) {
	var uri stockURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.fail(c, badRequest(err, "Invalid stock ID"), "Failed to fetch price history")
		return
	}
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, badRequest(err, "days must be a positive integer"), "Failed to fetch price history")
		return
	}
	id, days := uri.ID, orDefault(q.Days, defaultHistoryDays, maxHistoryDays)

	ctx := c.Request.Context()
	key := fmt.Sprintf("stocks:%d:history:%d", id, days)
	history, err := cache.Fetch(ctx, h.cache, h.log, key, h.cacheTTL, func() ([]PricePoint, error) {
		since := h.now().UTC().AddDate(0, 0, -days)
		prices, err := h.stocks.PriceHistory(ctx, id, since)
		if err != nil {
			return nil, err
		}
		points := make([]PricePoint, len(prices))
		for i, p := range prices {
			points[i] = PricePoint{
				Price:      valuation.NewAmount(p.Price),
				Volume:     p.Volume,
				RecordedAt: p.RecordedAt,
			}
		}
		return points, nil
	})
	if err != nil {
		h.fail(c, stockNotFound(err), "Failed to fetch price history")
		return
	}
	ok(c, history)
}

// stockNotFound replaces the storage detail of a missing stock with the
// message clients expect. Other missing rows keep their own message.
func stockNotFound(err error) error {
	if errors.Is(err, models.ErrStockNotFound) {
		return withMessage(err, "Stock not found")
	}
	return err
}
