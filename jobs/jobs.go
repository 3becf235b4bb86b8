package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stock-portfolio/ledger"

	"github.com/sirupsen/logrus"
)

type PriceRecorder interface {
	RecordSnapshot(ctx context.Context, at time.Time) (int, error)
}

// SnapshotJob appends every stock's current price to its price history.
type SnapshotJob struct {
	prices PriceRecorder
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewSnapshotJob(prices PriceRecorder, log logrus.FieldLogger) *SnapshotJob {
	return &SnapshotJob{
		prices: prices,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (j *SnapshotJob) Name() string { return "price-snapshot" }

func (j *SnapshotJob) Run(ctx context.Context) error {
	n, err := j.prices.RecordSnapshot(ctx, j.now())
	if err != nil {
		return err
	}
	j.log.WithField("stocks", n).Info("price snapshot recorded")
	return nil
}

type LedgerAuditor interface {
	Run(ctx context.Context) ([]ledger.Discrepancy, error)
}

// ErrLedgerDrift is returned by AuditJob when stored balances or holdings
// differ from the transaction log.
var ErrLedgerDrift = errors.New("ledger drift detected")

type AuditJob struct {
	auditor LedgerAuditor
}

func NewAuditJob(auditor LedgerAuditor) *AuditJob {
	return &AuditJob{auditor: auditor}
}

func (j *AuditJob) Name() string { return "ledger-audit" }

func (j *AuditJob) Run(ctx context.Context) error {
	found, err := j.auditor.Run(ctx)
	if err != nil {
		return err
	}
	if len(found) > 0 {
		return fmt.Errorf("%w: %d discrepancies", ErrLedgerDrift, len(found))
	}
	return nil
}
