package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stock-portfolio/models"
	"stock-portfolio/valuation"

	"github.com/gin-gonic/gin"
)

type WatchlistStore interface {
	List(ctx context.Context, userID uint) ([]models.WatchlistEntry, error)
	Add(ctx context.Context, userID, stockID uint) error
	Remove(ctx context.Context, userID, stockID uint) (bool, error)
}

type WatchlistItem struct {
	ID            uint              `json:"id"`
	StockID       uint              `json:"stock_id"`
	Symbol        string            `json:"symbol"`
	CompanyName   string            `json:"company_name"`
	CurrentPrice  valuation.Amount  `json:"current_price"`
	PreviousClose valuation.Amount  `json:"previous_close"`
	ChangeAmount  valuation.Amount  `json:"change_amount"`
	ChangePercent valuation.Percent `json:"change_percent"`
	AddedAt       time.Time         `json:"added_at"`
}

type WatchlistInput struct {
	StockID uint `json:"stockId" binding:"required,min=1"`
}

func (h *Handler) GetWatchlist(c *gin.Context) {
	entries, err := h.watchlist.List(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch watchlist")
		return
	}

	items := make([]WatchlistItem, len(entries))
	for i, e := range entries {
		s := viewStock(e.Stock)
		items[i] = WatchlistItem{
			ID:            e.ID,
			StockID:       e.StockID,
			Symbol:        s.Symbol,
			CompanyName:   s.CompanyName,
			CurrentPrice:  s.CurrentPrice,
			PreviousClose: s.PreviousClose,
			ChangeAmount:  s.ChangeAmount,
			ChangePercent: s.ChangePercent,
			AddedAt:       e.AddedAt,
		}
	}
	ok(c, items)
}

// AddToWatchlist reports a duplicate as an unsuccessful but valid result.
func (h *Handler) AddToWatchlist(c *gin.Context) {
	var input WatchlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.fail(c, badRequest(err, "Stock ID is required"), "Failed to add to watchlist")
		return
	}

	err := h.watchlist.Add(c.Request.Context(), currentUser(c), input.StockID)
	switch {
	case errors.Is(err, models.ErrDuplicateEntry):
		c.JSON(http.StatusOK, response{Success: false, Message: "Stock already in watchlist"})
	case err != nil:
		h.fail(c, stockNotFound(err), "Failed to add to watchlist")
	default:
		okMessage(c, "Stock added to watchlist", nil)
	}
}

func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	var uri watchlistURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.fail(c, badRequest(err, "Invalid stock ID"), "Failed to remove from watchlist")
		return
	}

	removed, err := h.watchlist.Remove(c.Request.Context(), currentUser(c), uri.StockID)
	if err != nil {
		h.fail(c, err, "Failed to remove from watchlist")
		return
	}
	if !removed {
		c.JSON(http.StatusOK, response{Success: false, Message: "Stock not found in watchlist"})
		return
	}
	okMessage(c, "Stock removed from watchlist", nil)
}
