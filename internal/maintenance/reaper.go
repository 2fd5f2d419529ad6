// Package maintenance holds the background loops that keep job and model
// state healthy: reaping jobs the provider never called back for, and
// refreshing per-model ETA estimates.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
)

// stuckAfter is how long a job may sit in pending or processing before it
// is considered abandoned by the provider.
const stuckAfter = 20 * time.Minute

// ReaperStore lists jobs whose processing deadline passed.
type ReaperStore interface {
	ListStuckJobs(ctx context.Context, before time.Time) ([]*models.Job, error)
}

// JobFailer is the single transition the reaper is allowed to make.
type JobFailer interface {
	Fail(ctx context.Context, id uuid.UUID, result any) error
}

// Reaper fails jobs that never received a provider callback. It only ever
// moves jobs to failed; the CAS transition in the store makes a race with a
// late callback harmless.
type Reaper struct {
	store    ReaperStore
	jobs     JobFailer
	interval time.Duration
	now      func() time.Time
}

func NewReaper(s ReaperStore, jobs JobFailer, interval time.Duration) *Reaper {
	return &Reaper{store: s, jobs: jobs, interval: interval, now: time.Now}
}

// Run loops until ctx is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep fails every job that has been waiting longer than the deadline.
func (r *Reaper) Sweep(ctx context.Context) {
	cutoff := r.now().Add(-stuckAfter)
	stuck, err := r.store.ListStuckJobs(ctx, cutoff)
	if err != nil {
		slog.Error("failed to list stuck jobs", "error", err)
		return
	}
	if len(stuck) == 0 {
		return
	}

	slog.Info("failing stuck jobs", "count", len(stuck))
	for _, job := range stuck {
		err := r.jobs.Fail(ctx, job.ID, map[string]string{
			"error":   "Stuck job",
			"message": "No provider callback received before the processing deadline",
		})
		if err != nil {
			slog.Error("failed to fail stuck job", "job_id", job.ID, "error", err)
		}
	}
}
