package ledger

import (
	"context"
	"errors"
	"fmt"

	"stock-portfolio/models"

	"github.com/sirupsen/logrus"
)

// Account is one user's row, open holdings and whole transaction log as of
// a single point in time.
type Account struct {
	User     models.User
	Holdings []models.Holding
	Log      []models.Transaction
}

// AuditSource is the read side an Auditor needs.
type AuditSource interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	// AuditSnapshot reads an Account while holding the user's row lock, so
	// no trade for that user commits between its reads.
	AuditSnapshot(ctx context.Context, userID uint) (Account, error)
}

// Discrepancy is a difference between the stored projection and the one
// rebuilt from the transaction log.
type Discrepancy struct {
	UserID   uint   `json:"user_id"`
	StockID  uint   `json:"stock_id,omitempty"`
	Field    string `json:"field"`
	Stored   string `json:"stored"`
	Replayed string `json:"replayed"`
}

func (d Discrepancy) String() string {
	return fmt.Sprintf("user %d stock %d %s: stored %s, replayed %s", d.UserID, d.StockID, d.Field, d.Stored, d.Replayed)
}

// Auditor checks that cash balances and holdings are what the transaction
// log says they should be.
type Auditor struct {
	src AuditSource
	log logrus.FieldLogger
}

func NewAuditor(src AuditSource, log logrus.FieldLogger) *Auditor {
	return &Auditor{src: src, log: log.WithField("component", "audit")}
}

func (a *Auditor) Run(ctx context.Context) ([]Discrepancy, error) {
	users, err := a.src.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var found []Discrepancy
	for _, u := range users {
		acct, err := a.src.AuditSnapshot(ctx, u.ID)
		if errors.Is(err, models.ErrNotFound) {
			continue
		}
		if err != nil {
			return found, err
		}

		snap, err := Replay(acct.User.OpeningBalance, acct.Log)
		if err != nil {
			found = append(found, Discrepancy{UserID: u.ID, Field: "log", Stored: "-", Replayed: err.Error()})
			continue
		}
		found = append(found, Reconcile(acct.User, acct.Holdings, snap)...)
	}

	for _, d := range found {
		a.log.WithFields(logrus.Fields{
			"user_id":  d.UserID,
			"stock_id": d.StockID,
			"field":    d.Field,
			"stored":   d.Stored,
			"replayed": d.Replayed,
		}).Error("ledger projection differs from transaction log")
	}
	a.log.WithFields(logrus.Fields{"users": len(users), "discrepancies": len(found)}).Info("ledger audit finished")
	return found, nil
}

// Reconcile compares one user's stored cash and holdings with snap.
func Reconcile(u models.User, holdings []models.Holding, snap Snapshot) []Discrepancy {
	var out []Discrepancy
	if !u.CashBalance.Equal(snap.Cash) {
		out = append(out, Discrepancy{
			UserID: u.ID, Field: "cash_balance",
			Stored: u.CashBalance.StringFixed(moneyPlaces), Replayed: snap.Cash.StringFixed(moneyPlaces),
		})
	}

	seen := make(map[uint]bool, len(holdings))
	for _, h := range holdings {
		seen[h.StockID] = true
		want, ok := snap.Holdings[h.StockID]
		if !ok {
			out = append(out, Discrepancy{
				UserID: u.ID, StockID: h.StockID, Field: "quantity",
				Stored: fmt.Sprint(h.Quantity), Replayed: "0",
			})
			continue
		}
		if h.Quantity != want.Quantity {
			out = append(out, Discrepancy{
				UserID: u.ID, StockID: h.StockID, Field: "quantity",
				Stored: fmt.Sprint(h.Quantity), Replayed: fmt.Sprint(want.Quantity),
			})
		}
		if !h.TotalInvested.Equal(want.TotalInvested) {
			out = append(out, Discrepancy{
				UserID: u.ID, StockID: h.StockID, Field: "total_invested",
				Stored: h.TotalInvested.String(), Replayed: want.TotalInvested.String(),
			})
		}
		if !h.AveragePrice.Equal(want.AveragePrice) {
			out = append(out, Discrepancy{
				UserID: u.ID, StockID: h.StockID, Field: "average_price",
				Stored: h.AveragePrice.String(), Replayed: want.AveragePrice.String(),
			})
		}
	}
	for stockID, want := range snap.Holdings {
		if !seen[stockID] {
			out = append(out, Discrepancy{
				UserID: u.ID, StockID: stockID, Field: "quantity",
				Stored: "0", Replayed: fmt.Sprint(want.Quantity),
			})
		}
	}
	return out
}
