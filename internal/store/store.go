package store

import (
	"context"
	"errors"
	"time"

	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error

	GetModel(ctx context.Context, id uuid.UUID) (*models.Model, error)
	ListModels(ctx context.Context, filter ModelFilter) ([]*models.Model, int, error)
	UpsertModel(ctx context.Context, m *models.Model) (uuid.UUID, error)
	SetModelCostToCustomer(ctx context.Context, id uuid.UUID, cost float64) error
	SetModelCostToClient(ctx context.Context, id uuid.UUID, cost float64) error
	SetModelETA(ctx context.Context, id uuid.UUID, etaSeconds int) error
	ListModelIDs(ctx context.Context) ([]uuid.UUID, error)

	GetParameterSchemas(ctx context.Context, modelID uuid.UUID) ([]*models.ParameterSchema, error)
	GetPublicParameterSchemas(ctx context.Context, modelID uuid.UUID) ([]*models.ParameterSchema, error)
	ReplaceParameterSchemas(ctx context.Context, modelID uuid.UUID, schemas []*models.ParameterSchema) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	GetUserJob(ctx context.Context, id uuid.UUID, userID string) (*models.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, int, error)
	MarkJobProcessing(ctx context.Context, id uuid.UUID, providerJobID string) error
	CompleteJob(ctx context.Context, id uuid.UUID, result string, costToClient float64) (bool, error)
	FailJob(ctx context.Context, id uuid.UUID, result string) (bool, error)
	SoftDeleteJob(ctx context.Context, id uuid.UUID, userID string) error
	SetJobPublic(ctx context.Context, id uuid.UUID, userID string, public bool) error
	ListStuckJobs(ctx context.Context, before time.Time) ([]*models.Job, error)
	ListPublicResults(ctx context.Context, modelID uuid.UUID, limit int) ([]string, error)
	ListCompletedDurations(ctx context.Context, modelID uuid.UUID, limit int) ([]time.Duration, error)
}

type ModelFilter struct {
	ModelType string
	Page      int
	Limit     int
}

type JobFilter struct {
	UserID   string
	Status   string
	JobIDs   []uuid.UUID
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}
