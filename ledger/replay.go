package ledger

import (
	"fmt"
	"sort"

	"stock-portfolio/models"

	"github.com/shopspring/decimal"
)

// Snapshot is the ledger state implied by a transaction log.
type Snapshot struct {
	Cash     decimal.Decimal
	Holdings map[uint]Position // by stock id, open positions only
}

// Replay folds txs in log order (ascending id) onto an account that
// started with opening cash. It applies the same arithmetic as the
// Executor, so for a consistent store the result equals the stored cash and
// holdings. Transaction dates come from the clock of whichever process
// wrote them and do not define the order.
func Replay(opening decimal.Decimal, txs []models.Transaction) (Snapshot, error) {
	ordered := make([]models.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	snap := Snapshot{Cash: opening, Holdings: make(map[uint]Position)}
	for _, t := range ordered {
		pos := snap.Holdings[t.StockID]
		switch t.Type {
		case models.TransactionBuy:
			pos = pos.Buy(t.Quantity, t.PricePerShare)
			snap.Cash = snap.Cash.Sub(t.TotalAmount)
		case models.TransactionSell:
			var err error
			if pos, err = pos.Sell(t.Quantity); err != nil {
				return snap, fmt.Errorf("transaction %s: %w", t.Reference, err)
			}
			snap.Cash = snap.Cash.Add(t.TotalAmount)
		default:
			return snap, fmt.Errorf("transaction %s: unknown type %q", t.Reference, t.Type)
		}
		if pos.IsClosed() {
			delete(snap.Holdings, t.StockID)
		} else {
			snap.Holdings[t.StockID] = pos
		}
	}
	return snap, nil
}
