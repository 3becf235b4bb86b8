package database

import (
	"context"
	"errors"
	"fmt"

	"stock-portfolio/ledger"
	"stock-portfolio/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var _ ledger.Store = (*LedgerStore)(nil)

// LedgerStore keeps users, holdings and the transaction log in a relational
// database. Units of work are database transactions; the user row is read
// with SELECT ... FOR UPDATE so trades for one user are serialized.
type LedgerStore struct {
	db *gorm.DB
}

func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Atomically(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

func (s *LedgerStore) ListHoldings(ctx context.Context, userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	err := s.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ? AND quantity > 0", userID).
		Order("id").
		Find(&holdings).Error
	if err != nil {
		return nil, storeError(err, "list holdings")
	}
	return holdings, nil
}

func (s *LedgerStore) ListTransactions(ctx context.Context, userID uint, limit int) ([]models.Transaction, error) {
	q := s.db.WithContext(ctx).Preload("Stock").Where("user_id = ?", userID)
	if limit > 0 {
		q = q.Order("transaction_date DESC").Order("id DESC").Limit(limit)
	} else {
		q = q.Order("id")
	}

	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return nil, storeError(err, "list transactions")
	}
	return txs, nil
}

// AuditSnapshot reads a user's row, open holdings and whole log inside one
// transaction that locks the user row first. Trades take the same lock, so
// the three reads agree with each other.
func (s *LedgerStore) AuditSnapshot(ctx context.Context, userID uint) (ledger.Account, error) {
	var acct ledger.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&acct.User, userID).Error; err != nil {
			return storeError(err, fmt.Sprintf("user %d", userID))
		}
		err := tx.Preload("Stock").
			Where("user_id = ? AND quantity > 0", userID).
			Order("id").
			Find(&acct.Holdings).Error
		if err != nil {
			return storeError(err, "list holdings")
		}
		if err := tx.Where("user_id = ?", userID).Order("id").Find(&acct.Log).Error; err != nil {
			return storeError(err, "list transactions")
		}
		return nil
	})
	return acct, err
}

// CashBalance is an unlocked read for presentation.
func (s *LedgerStore) CashBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "cash_balance").Take(&user, userID).Error; err != nil {
		return decimal.Zero, storeError(err, fmt.Sprintf("user %d", userID))
	}
	return user.CashBalance, nil
}

func (s *LedgerStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, storeError(err, "list users")
	}
	return users, nil
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) forUpdate() *gorm.DB {
	return t.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (t *gormTx) GetStock(stockID uint) (*models.Stock, error) {
	var stock models.Stock
	if err := t.db.Take(&stock, stockID).Error; err != nil {
		return nil, stockError(err, stockID)
	}
	return &stock, nil
}

func (t *gormTx) GetCashBalance(userID uint) (decimal.Decimal, error) {
	var user models.User
	if err := t.forUpdate().Select("id", "cash_balance").Take(&user, userID).Error; err != nil {
		return decimal.Zero, storeError(err, fmt.Sprintf("user %d", userID))
	}
	return user.CashBalance, nil
}

func (t *gormTx) GetHolding(userID, stockID uint) (*models.Holding, error) {
	var h models.Holding
	err := t.forUpdate().Where("user_id = ? AND stock_id = ?", userID, stockID).Take(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err, "get holding")
	}
	return &h, nil
}

func (t *gormTx) UpsertHolding(h *models.Holding) error {
	if h.Quantity <= 0 {
		return fmt.Errorf("%w: holding quantity must be positive", models.ErrValidation)
	}
	if err := t.db.Omit(clause.Associations).Save(h).Error; err != nil {
		return storeError(err, "save holding")
	}
	return nil
}

func (t *gormTx) DeleteHolding(userID, stockID uint) error {
	res := t.db.Where("user_id = ? AND stock_id = ?", userID, stockID).Delete(&models.Holding{})
	if res.Error != nil {
		return storeError(res.Error, "delete holding")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("holding %d/%d: %w", userID, stockID, models.ErrNotFound)
	}
	return nil
}

func (t *gormTx) DebitCash(userID uint, amount decimal.Decimal) error {
	return t.moveCash(userID, amount.Neg())
}

func (t *gormTx) CreditCash(userID uint, amount decimal.Decimal) error {
	return t.moveCash(userID, amount)
}

func (t *gormTx) moveCash(userID uint, delta decimal.Decimal) error {
	balance, err := t.GetCashBalance(userID)
	if err != nil {
		return err
	}
	next := balance.Add(delta).Round(2)
	if next.IsNegative() {
		return fmt.Errorf("%w: balance %s, debit %s",
			models.ErrInsufficientFunds, balance.StringFixed(2), delta.Neg().StringFixed(2))
	}

	res := t.db.Model(&models.User{}).Where("id = ?", userID).Update("cash_balance", next)
	if res.Error != nil {
		return storeError(res.Error, "update cash balance")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	return nil
}

func (t *gormTx) AppendTransaction(tr *models.Transaction) error {
	if err := t.db.Omit(clause.Associations).Create(tr).Error; err != nil {
		return storeError(err, "append transaction")
	}
	return nil
}
