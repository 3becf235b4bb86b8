// Package ledger applies trades to a user's cash and holdings. Every trade
// runs inside a single unit of work provided by the store, so the balance
// check, the holding change, the cash movement and the log append either
// all happen or none do.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-portfolio/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Order is a request to trade Quantity shares of StockID at Price on behalf
// of UserID.
type Order struct {
	UserID   uint
	StockID  uint
	Quantity int
	Price    decimal.Decimal
}

func (o Order) validate() error {
	switch {
	case o.UserID == 0:
		return fmt.Errorf("%w: user is required", models.ErrValidation)
	case o.StockID == 0:
		return fmt.Errorf("%w: stock is required", models.ErrValidation)
	case o.Quantity <= 0:
		return fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	case !o.Price.IsPositive():
		return fmt.Errorf("%w: price must be positive", models.ErrValidation)
	case !o.Price.Equal(o.Price.Round(moneyPlaces)):
		return fmt.Errorf("%w: price has more than %d decimal places", models.ErrValidation, moneyPlaces)
	}
	return nil
}

// Receipt describes a committed trade.
type Receipt struct {
	Reference   string
	Type        models.TransactionType
	Symbol      string
	Quantity    int
	Price       decimal.Decimal
	TotalAmount decimal.Decimal
	CashBalance decimal.Decimal
	// Position is the holding after the trade; zero when it was closed.
	Position Position
	At       time.Time
}

type Executor struct {
	uow          UnitOfWork
	log          logrus.FieldLogger
	now          func() time.Time
	newReference func() string
}

func NewExecutor(uow UnitOfWork, log logrus.FieldLogger) *Executor {
	return &Executor{
		uow:          uow,
		log:          log.WithField("component", "ledger"),
		now:          func() time.Time { return time.Now().UTC() },
		newReference: uuid.NewString,
	}
}

// Buy debits quantity × price from the user's cash and adds the shares to
// their holding.
func (e *Executor) Buy(ctx context.Context, order Order) (*Receipt, error) {
	if err := order.validate(); err != nil {
		return nil, err
	}
	cost := Amount(order.Quantity, order.Price)

	var receipt *Receipt
	err := e.uow.Atomically(ctx, func(tx Tx) error {
		cash, err := tx.GetCashBalance(order.UserID)
		if err != nil {
			return err
		}
		stock, err := tx.GetStock(order.StockID)
		if err != nil {
			return err
		}
		if cash.LessThan(cost) {
			return fmt.Errorf("%w: cost %s exceeds balance %s",
				models.ErrInsufficientFunds, cost.StringFixed(moneyPlaces), cash.StringFixed(moneyPlaces))
		}

		holding, err := tx.GetHolding(order.UserID, order.StockID)
		if err != nil {
			return err
		}
		next := positionOf(holding).Buy(order.Quantity, order.Price)
		if holding == nil {
			holding = &models.Holding{UserID: order.UserID, StockID: order.StockID}
		}
		holding.Quantity = next.Quantity
		holding.AveragePrice = next.AveragePrice
		holding.TotalInvested = next.TotalInvested
		if err := tx.UpsertHolding(holding); err != nil {
			return err
		}

		if err := tx.DebitCash(order.UserID, cost); err != nil {
			return err
		}
		record := e.record(order, models.TransactionBuy, cost)
		if err := tx.AppendTransaction(record); err != nil {
			return err
		}

		receipt = newReceipt(record, stock, cash.Sub(cost), next)
		return nil
	})
	if err != nil {
		return nil, e.reject(order, models.TransactionBuy, err)
	}
	e.accept(receipt, order)
	return receipt, nil
}

// Sell removes quantity shares from the user's holding and credits the
// proceeds. Selling more than is held fails without partial fills.
func (e *Executor) Sell(ctx context.Context, order Order) (*Receipt, error) {
	if err := order.validate(); err != nil {
		return nil, err
	}
	proceeds := Amount(order.Quantity, order.Price)

	var receipt *Receipt
	err := e.uow.Atomically(ctx, func(tx Tx) error {
		cash, err := tx.GetCashBalance(order.UserID)
		if err != nil {
			return err
		}
		stock, err := tx.GetStock(order.StockID)
		if err != nil {
			return err
		}
		holding, err := tx.GetHolding(order.UserID, order.StockID)
		if err != nil {
			return err
		}
		if holding == nil {
			return fmt.Errorf("%w: no position in %s", models.ErrInsufficientShares, stock.Symbol)
		}

		next, err := positionOf(holding).Sell(order.Quantity)
		if err != nil {
			return err
		}
		if next.IsClosed() {
			err = tx.DeleteHolding(order.UserID, order.StockID)
		} else {
			holding.Quantity = next.Quantity
			holding.TotalInvested = next.TotalInvested
			err = tx.UpsertHolding(holding)
		}
		if err != nil {
			return err
		}

		if err := tx.CreditCash(order.UserID, proceeds); err != nil {
			return err
		}
		record := e.record(order, models.TransactionSell, proceeds)
		if err := tx.AppendTransaction(record); err != nil {
			return err
		}

		receipt = newReceipt(record, stock, cash.Add(proceeds), next)
		return nil
	})
	if err != nil {
		return nil, e.reject(order, models.TransactionSell, err)
	}
	e.accept(receipt, order)
	return receipt, nil
}

func (e *Executor) record(order Order, kind models.TransactionType, total decimal.Decimal) *models.Transaction {
	return &models.Transaction{
		Reference:       e.newReference(),
		UserID:          order.UserID,
		StockID:         order.StockID,
		Type:            kind,
		Quantity:        order.Quantity,
		PricePerShare:   order.Price,
		TotalAmount:     total,
		TransactionDate: e.now(),
	}
}

func newReceipt(t *models.Transaction, stock *models.Stock, cash decimal.Decimal, pos Position) *Receipt {
	return &Receipt{
		Reference:   t.Reference,
		Type:        t.Type,
		Symbol:      stock.Symbol,
		Quantity:    t.Quantity,
		Price:       t.PricePerShare,
		TotalAmount: t.TotalAmount,
		CashBalance: cash,
		Position:    pos,
		At:          t.TransactionDate,
	}
}

func (e *Executor) accept(r *Receipt, order Order) {
	e.log.WithFields(logrus.Fields{
		"user_id":   order.UserID,
		"stock_id":  order.StockID,
		"type":      r.Type,
		"quantity":  r.Quantity,
		"price":     r.Price.StringFixed(moneyPlaces),
		"total":     r.TotalAmount.StringFixed(moneyPlaces),
		"reference": r.Reference,
	}).Info("trade committed")
}

// reject logs a failed trade and makes sure the error carries one of the
// failure kinds callers switch on.
func (e *Executor) reject(order Order, kind models.TransactionType, err error) error {
	if !IsDomainError(err) {
		err = fmt.Errorf("%w: %w", models.ErrStoreFailure, err)
	}
	e.log.WithFields(logrus.Fields{
		"user_id":  order.UserID,
		"stock_id": order.StockID,
		"type":     kind,
		"quantity": order.Quantity,
		"price":    order.Price.String(),
	}).WithError(err).Warn("trade rolled back")
	return err
}

// IsDomainError reports whether err already carries one of the failure
// kinds in models.
func IsDomainError(err error) bool {
	for _, kind := range []error{
		models.ErrValidation,
		models.ErrInsufficientFunds,
		models.ErrInsufficientShares,
		models.ErrNotFound,
		models.ErrDuplicateEntry,
		models.ErrStoreFailure,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
