package handlers

import (
	"context"
	"net/http"
	"time"

	"stock-portfolio/ledger"
	"stock-portfolio/middleware"
	"stock-portfolio/portfolio"
	"stock-portfolio/valuation"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionLimit = 50
	maxTransactionLimit     = 500
)

type PortfolioReader interface {
	Summary(ctx context.Context, userID uint) (*portfolio.Summary, error)
	Holdings(ctx context.Context, userID uint) ([]portfolio.HoldingView, error)
	Transactions(ctx context.Context, userID uint, limit int) ([]portfolio.TransactionView, error)
}

type Trader interface {
	Buy(ctx context.Context, order ledger.Order) (*ledger.Receipt, error)
	Sell(ctx context.Context, order ledger.Order) (*ledger.Receipt, error)
}

type TradeInput struct {
	StockID  uint             `json:"stockId" binding:"required,min=1"`
	Quantity int              `json:"quantity" binding:"required,min=1"`
	Price    *decimal.Decimal `json:"price" binding:"required"`
}

type PositionView struct {
	Quantity      int              `json:"quantity"`
	AveragePrice  valuation.Amount `json:"average_price"`
	TotalInvested valuation.Amount `json:"total_invested"`
}

type TradeView struct {
	Reference       string           `json:"reference"`
	TransactionType string           `json:"transaction_type"`
	Symbol          string           `json:"symbol"`
	Quantity        int              `json:"quantity"`
	PricePerShare   valuation.Amount `json:"price_per_share"`
	TotalAmount     valuation.Amount `json:"total_amount"`
	CashBalance     valuation.Amount `json:"cash_balance"`
	Holding         PositionView     `json:"holding"`
	TransactionDate time.Time        `json:"transaction_date"`
}

func viewTrade(r *ledger.Receipt) TradeView {
	return TradeView{
		Reference:       r.Reference,
		TransactionType: string(r.Type),
		Symbol:          r.Symbol,
		Quantity:        r.Quantity,
		PricePerShare:   valuation.NewAmount(r.Price),
		TotalAmount:     valuation.NewAmount(r.TotalAmount),
		CashBalance:     valuation.NewAmount(r.CashBalance),
		Holding: PositionView{
			Quantity:      r.Position.Quantity,
			AveragePrice:  valuation.NewAmount(r.Position.AveragePrice),
			TotalInvested: valuation.NewAmount(r.Position.TotalInvested),
		},
		TransactionDate: r.At,
	}
}

func currentUser(c *gin.Context) uint {
	uid, _ := middleware.UserID(c)
	return uid
}

func (h *Handler) GetPortfolio(c *gin.Context) {
	summary, err := h.portfolio.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch portfolio")
		return
	}
	ok(c, summary)
}

func (h *Handler) GetHoldings(c *gin.Context) {
	holdings, err := h.portfolio.Holdings(c.Request.Context(), currentUser(c))
	if err != nil {
		h.fail(c, err, "Failed to fetch holdings")
		return
	}
	ok(c, holdings)
}

func (h *Handler) GetTransactions(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.fail(c, badRequest(err, "limit must be a positive integer"), "Failed to fetch transactions")
		return
	}
	limit := orDefault(q.Limit, defaultTransactionLimit, maxTransactionLimit)
	txs, err := h.portfolio.Transactions(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		h.fail(c, err, "Failed to fetch transactions")
		return
	}
	ok(c, txs)
}

func (h *Handler) BuyStock(c *gin.Context) {
	h.trade(c, h.trader.Buy, "Stock purchased successfully", "Failed to buy stock")
}

func (h *Handler) SellStock(c *gin.Context) {
	h.trade(c, h.trader.Sell, "Stock sold successfully", "Failed to sell stock")
}

func (h *Handler) trade(c *gin.Context, execute func(context.Context, ledger.Order) (*ledger.Receipt, error), success, failure string) {
	var input TradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		message := "Invalid trade request"
		if missingField(err) {
			message = "Missing required fields"
		}
		h.fail(c, badRequest(err, message), failure)
		return
	}

	receipt, err := execute(c.Request.Context(), ledger.Order{
		UserID:   currentUser(c),
		StockID:  input.StockID,
		Quantity: input.Quantity,
		Price:    *input.Price,
	})
	if err != nil {
		h.fail(c, stockNotFound(err), failure)
		return
	}
	c.JSON(http.StatusOK, response{Success: true, Message: success, Data: viewTrade(receipt)})
}
