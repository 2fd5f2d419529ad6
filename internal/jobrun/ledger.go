package jobrun

import (
	"context"

	"github.com/google/uuid"
)

// BalanceLedger is the customer balance capability the orchestrator depends
// on. Reserve and Release bracket a job's cost; a job that fails after
// submission releases its reservation.
type BalanceLedger interface {
	Balance(ctx context.Context, customerID string) (float64, error)
	Reserve(ctx context.Context, customerID string, amount float64, jobID uuid.UUID) error
	Release(ctx context.Context, customerID string, amount float64, jobID uuid.UUID) error
}

// StaticLedger is a fixed-balance ledger used until a real billing backend
// is wired in. Reserve and Release are accepted and dropped.
type StaticLedger struct {
	FixedBalance float64
}

func (l *StaticLedger) Balance(_ context.Context, _ string) (float64, error) {
	return l.FixedBalance, nil
}

func (l *StaticLedger) Reserve(_ context.Context, _ string, _ float64, _ uuid.UUID) error {
	return nil
}

func (l *StaticLedger) Release(_ context.Context, _ string, _ float64, _ uuid.UUID) error {
	return nil
}
