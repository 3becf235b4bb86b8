package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stock-portfolio/models"

	"github.com/shopspring/decimal"
)

type holdingKey struct{ user, stock uint }

type memState struct {
	cash     map[uint]decimal.Decimal
	stocks   map[uint]models.Stock
	holdings map[holdingKey]models.Holding
	txs      []models.Transaction
}

func (s memState) clone() memState {
	c := memState{
		cash:     make(map[uint]decimal.Decimal, len(s.cash)),
		stocks:   s.stocks,
		holdings: make(map[holdingKey]models.Holding, len(s.holdings)),
		txs:      append([]models.Transaction(nil), s.txs...),
	}
	for k, v := range s.cash {
		c.cash[k] = v
	}
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	return c
}

// memStore is a UnitOfWork that works on a copy of its state and swaps it in
// on commit.
type memStore struct {
	mu         sync.Mutex
	state      memState
	units      int
	failAppend bool
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		cash:     map[uint]decimal.Decimal{},
		stocks:   map[uint]models.Stock{},
		holdings: map[holdingKey]models.Holding{},
	}}
}

func (m *memStore) addUser(id uint, cash string) {
	m.state.cash[id] = decimal.RequireFromString(cash)
}

func (m *memStore) addStock(id uint, symbol string) {
	m.state.stocks[id] = models.Stock{ID: id, Symbol: symbol}
}

func (m *memStore) cash(id uint) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.cash[id]
}

func (m *memStore) holding(user, stock uint) (models.Holding, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.state.holdings[holdingKey{user, stock}]
	return h, ok
}

func (m *memStore) Atomically(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units++

	work := m.state.clone()
	if err := fn(&memTx{s: &work, failAppend: m.failAppend}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.state = work
	return nil
}

type memTx struct {
	s          *memState
	failAppend bool
}

func (t *memTx) GetStock(id uint) (*models.Stock, error) {
	s, ok := t.s.stocks[id]
	if !ok {
		return nil, fmt.Errorf("%d: %w", id, models.ErrStockNotFound)
	}
	return &s, nil
}

func (t *memTx) GetCashBalance(userID uint) (decimal.Decimal, error) {
	c, ok := t.s.cash[userID]
	if !ok {
		return decimal.Zero, fmt.Errorf("user %d: %w", userID, models.ErrNotFound)
	}
	return c, nil
}

func (t *memTx) GetHolding(userID, stockID uint) (*models.Holding, error) {
	h, ok := t.s.holdings[holdingKey{userID, stockID}]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (t *memTx) UpsertHolding(h *models.Holding) error {
	t.s.holdings[holdingKey{h.UserID, h.StockID}] = *h
	return nil
}

func (t *memTx) DeleteHolding(userID, stockID uint) error {
	delete(t.s.holdings, holdingKey{userID, stockID})
	return nil
}

func (t *memTx) DebitCash(userID uint, amount decimal.Decimal) error {
	next := t.s.cash[userID].Sub(amount)
	if next.IsNegative() {
		return models.ErrInsufficientFunds
	}
	t.s.cash[userID] = next
	return nil
}

func (t *memTx) CreditCash(userID uint, amount decimal.Decimal) error {
	t.s.cash[userID] = t.s.cash[userID].Add(amount)
	return nil
}

func (t *memTx) AppendTransaction(tr *models.Transaction) error {
	if t.failAppend {
		return errors.New("disk I/O error")
	}
	tr.ID = uint(len(t.s.txs) + 1)
	t.s.txs = append(t.s.txs, *tr)
	return nil
}
