// Package jobrun owns the job submission pipeline: parameter validation,
// dispatch to the provider, job state transitions, and webhook
// reconciliation.
package jobrun

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fluxuro/uro-client-template-api/internal/store"
	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
)

const statusCacheTTL = 24 * time.Hour

// Store is the persistence port the pipeline needs; *store.PostgresStore
// satisfies it.
type Store interface {
	GetModel(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetParameterSchemas(ctx context.Context, modelID uuid.UUID) ([]*models.ParameterSchema, error)
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	MarkJobProcessing(ctx context.Context, id uuid.UUID, providerJobID string) error
	CompleteJob(ctx context.Context, id uuid.UUID, result string, costToClient float64) (bool, error)
	FailJob(ctx context.Context, id uuid.UUID, result string) (bool, error)
}

// StatusCache receives job status updates on transitions so read paths can
// serve fresh status without a database hit.
type StatusCache interface {
	SetJobStatus(ctx context.Context, jobID uuid.UUID, status string, ttl time.Duration) error
}

// Lifecycle is the only component that mutates job state. All transitions
// are forward-only; terminal transitions are idempotent.
type Lifecycle struct {
	store Store
	cache StatusCache
}

// NewLifecycle creates a Lifecycle. cache may be nil.
func NewLifecycle(s Store, cache StatusCache) *Lifecycle {
	return &Lifecycle{store: s, cache: cache}
}

// Create inserts a new pending job. The job's ID is assigned here when not
// already set.
func (l *Lifecycle) Create(ctx context.Context, job *models.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.Status = models.JobStatusPending
	job.CreatedAt = time.Now().UTC()
	if err := l.store.CreateJob(ctx, job); err != nil {
		return err
	}
	l.cacheStatus(ctx, job.ID, models.JobStatusPending)
	return nil
}

// MarkProcessing records the provider's job handle and moves a pending job
// to processing.
func (l *Lifecycle) MarkProcessing(ctx context.Context, id uuid.UUID, providerJobID string) error {
	if err := l.store.MarkJobProcessing(ctx, id, providerJobID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return err
	}
	l.cacheStatus(ctx, id, models.JobStatusProcessing)
	return nil
}

// Complete moves a job to completed with its result payload and client
// cost. A job already in a terminal state is left untouched, so duplicate
// webhook deliveries keep the first-seen result.
func (l *Lifecycle) Complete(ctx context.Context, id uuid.UUID, result any, costToClient float64) error {
	applied, err := l.store.CompleteJob(ctx, id, serializeValue(result), costToClient)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return err
	}
	if !applied {
		slog.Info("job already terminal, complete skipped", "job_id", id)
		return nil
	}
	l.cacheStatus(ctx, id, models.JobStatusCompleted)
	return nil
}

// Fail moves a job to failed with its result payload. Same idempotence
// contract as Complete.
func (l *Lifecycle) Fail(ctx context.Context, id uuid.UUID, result any) error {
	applied, err := l.store.FailJob(ctx, id, serializeValue(result))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return err
	}
	if !applied {
		slog.Info("job already terminal, fail skipped", "job_id", id)
		return nil
	}
	l.cacheStatus(ctx, id, models.JobStatusFailed)
	return nil
}

func (l *Lifecycle) cacheStatus(ctx context.Context, id uuid.UUID, status string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.SetJobStatus(ctx, id, status, statusCacheTTL); err != nil {
		slog.Warn("failed to cache job status", "job_id", id, "error", err)
	}
}

// serializeValue stores structured values as JSON text and strings
// verbatim. Readers attempt a structured parse and fall back to the raw
// string.
func serializeValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.RawMessage:
		return string(s)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
