package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// etaSampleSize is how many recent completed jobs feed the estimate.
const etaSampleSize = 10

// ETAStore is the store subset the averager needs.
type ETAStore interface {
	ListModelIDs(ctx context.Context) ([]uuid.UUID, error)
	ListCompletedDurations(ctx context.Context, modelID uuid.UUID, limit int) ([]time.Duration, error)
	SetModelETA(ctx context.Context, id uuid.UUID, etaSeconds int) error
}

// ETAUpdater keeps each model's advertised ETA in line with its recent
// completed-job processing times.
type ETAUpdater struct {
	store    ETAStore
	interval time.Duration
}

func NewETAUpdater(s ETAStore, interval time.Duration) *ETAUpdater {
	return &ETAUpdater{store: s, interval: interval}
}

// Run loops until ctx is cancelled.
func (u *ETAUpdater) Run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.Refresh(ctx)
		}
	}
}

// Refresh recomputes the ETA for every model with enough completed jobs.
// Models without samples keep their current value.
func (u *ETAUpdater) Refresh(ctx context.Context) {
	ids, err := u.store.ListModelIDs(ctx)
	if err != nil {
		slog.Error("failed to list models for eta refresh", "error", err)
		return
	}

	for _, id := range ids {
		durations, err := u.store.ListCompletedDurations(ctx, id, etaSampleSize)
		if err != nil {
			slog.Error("failed to list completed durations", "model_id", id, "error", err)
			continue
		}
		if len(durations) == 0 {
			continue
		}

		var total time.Duration
		for _, d := range durations {
			total += d
		}
		mean := total / time.Duration(len(durations))
		etaSeconds := int(mean.Round(time.Second) / time.Second)
		if etaSeconds < 1 {
			etaSeconds = 1
		}

		if err := u.store.SetModelETA(ctx, id, etaSeconds); err != nil {
			slog.Error("failed to update model eta", "model_id", id, "error", err)
		}
	}
}
