package store_test

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/fluxuro/uro-client-template-api/internal/store"
	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Run migrations
	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

func insertModel(t *testing.T, s store.Store, name, modelType string) *models.Model {
	t.Helper()
	m := &models.Model{
		Name:            name,
		Description:     "test model",
		ModelType:       modelType,
		ProviderType:    models.ProviderTypeModel,
		ProviderModelID: uuid.NewString(),
		CostToCustomer:  10,
		IsActive:        true,
	}
	id, err := s.UpsertModel(context.Background(), m)
	require.NoError(t, err)
	m.ID = id
	return m
}

func insertJob(t *testing.T, s store.Store, modelID uuid.UUID, userID string) *models.Job {
	t.Helper()
	job := &models.Job{
		ID:             uuid.New(),
		ModelID:        modelID,
		UserID:         userID,
		ProviderType:   models.ProviderTypeModel,
		CorrelationID:  uuid.NewString(),
		InputParams:    `{"prompt":"a cat"}`,
		Status:         models.JobStatusPending,
		CostToCustomer: 10,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, s.CreateJob(context.Background(), job))
	return job
}

// markProcessed drives a job to completed with explicit processing and
// completion timestamps so duration queries are deterministic.
func markProcessed(t *testing.T, pool *pgxpool.Pool, id uuid.UUID, processingAt, completedAt time.Time, result string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`UPDATE job SET status = $2, processing_at = $3, completed_at = $4, result = $5
		 WHERE job_id = $1`,
		id, models.JobStatusCompleted, processingAt, completedAt, result)
	require.NoError(t, err)
}

// --- API Key Tests ---

func TestCreateAndGetAPIKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	key := &models.APIKey{
		Name:      "test client",
		KeyHash:   "$2a$10$fakehash",
		KeyPrefix: "ur_12345",
		Scopes:    []string{"models:run", "jobs:read"},
	}
	require.NoError(t, s.CreateAPIKey(ctx, key))
	assert.NotEqual(t, uuid.Nil, key.ID)

	keys, err := s.GetAPIKeyByPrefix(ctx, "ur_12345")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.ID, keys[0].ID)
	assert.Equal(t, "test client", keys[0].Name)
	assert.Equal(t, []string{"models:run", "jobs:read"}, keys[0].Scopes)
	assert.Nil(t, keys[0].LastUsedAt)
}

func TestGetAPIKeyByPrefixReturnsAllMatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, s.CreateAPIKey(ctx, &models.APIKey{
			Name:      "client",
			KeyHash:   uuid.NewString(),
			KeyPrefix: "ur_shared",
		}))
	}

	keys, err := s.GetAPIKeyByPrefix(ctx, "ur_shared")
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	keys, err = s.GetAPIKeyByPrefix(ctx, "ur_missin")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestCreateAPIKeyDuplicateID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	key := &models.APIKey{Name: "first", KeyHash: "h1", KeyPrefix: "ur_aaaaaa"}
	require.NoError(t, s.CreateAPIKey(ctx, key))

	dup := &models.APIKey{ID: key.ID, Name: "second", KeyHash: "h2", KeyPrefix: "ur_bbbbbb"}
	err := s.CreateAPIKey(ctx, dup)
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestUpdateAPIKeyLastUsed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	key := &models.APIKey{Name: "client", KeyHash: "h", KeyPrefix: "ur_lastus"}
	require.NoError(t, s.CreateAPIKey(ctx, key))

	require.NoError(t, s.UpdateAPIKeyLastUsed(ctx, key.ID))

	keys, err := s.GetAPIKeyByPrefix(ctx, "ur_lastus")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotNil(t, keys[0].LastUsedAt)
}

// --- Model Tests ---

func TestUpsertModel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := &models.Model{
		Name:            "flux-dev",
		Description:     "image generation",
		ModelType:       "image",
		ProviderType:    models.ProviderTypeModel,
		ProviderModelID: "provider-flux-dev",
		CostToCustomer:  12.5,
		IsActive:        true,
	}
	id, err := s.UpsertModel(ctx, m)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	// Same provider id upserts in place: the row keeps its id but takes
	// the new name and description.
	again, err := s.UpsertModel(ctx, &models.Model{
		Name:            "flux-dev-v2",
		Description:     "updated",
		ModelType:       "image",
		ProviderType:    models.ProviderTypeModel,
		ProviderModelID: "provider-flux-dev",
		IsActive:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := s.GetModel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "flux-dev-v2", got.Name)
	assert.Equal(t, "updated", got.Description)
	assert.Equal(t, 12.5, got.CostToCustomer)
}

func TestGetModelNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.GetModel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListModels(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	insertModel(t, s, "img-a", "image")
	insertModel(t, s, "img-b", "image")
	insertModel(t, s, "vid-a", "video")

	all, total, err := s.ListModels(ctx, store.ModelFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	images, total, err := s.ListModels(ctx, store.ModelFilter{ModelType: "image"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, m := range images {
		assert.Equal(t, "image", m.ModelType)
	}

	page, total, err := s.ListModels(ctx, store.ModelFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, page, 1)
}

func TestListModelsSkipsInactive(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	insertModel(t, s, "active", "image")
	_, err := s.UpsertModel(ctx, &models.Model{
		Name:            "inactive",
		ModelType:       "image",
		ProviderType:    models.ProviderTypeModel,
		ProviderModelID: "provider-inactive",
		IsActive:        false,
	})
	require.NoError(t, err)

	out, total, err := s.ListModels(ctx, store.ModelFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, "active", out[0].Name)
}

func TestSetModelCostsAndETA(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "priced", "image")

	require.NoError(t, s.SetModelCostToCustomer(ctx, m.ID, 42.5))
	require.NoError(t, s.SetModelCostToClient(ctx, m.ID, 21.25))
	require.NoError(t, s.SetModelETA(ctx, m.ID, 90))

	got, err := s.GetModel(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.5, got.CostToCustomer)
	assert.Equal(t, 21.25, got.CostToClient)
	assert.Equal(t, 90, got.ETASeconds)

	assert.ErrorIs(t, s.SetModelETA(ctx, uuid.New(), 10), store.ErrNotFound)
}

func TestListModelIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	a := insertModel(t, s, "one", "image")
	b := insertModel(t, s, "two", "video")

	ids, err := s.ListModelIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, ids)
}

// --- Parameter Schema Tests ---

func TestReplaceParameterSchemas(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "schemas", "image")

	one := 1
	two := 2
	first := []*models.ParameterSchema{
		{ModelID: m.ID, Name: "prompt", Title: "Prompt", DataType: "string", Required: true, SortOrder: &one},
		{ModelID: m.ID, Name: "steps", Title: "Steps", DataType: "integer", SortOrder: &two},
	}
	require.NoError(t, s.ReplaceParameterSchemas(ctx, m.ID, first))

	got, err := s.GetParameterSchemas(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "prompt", got[0].Name)
	assert.True(t, got[0].Required)

	// Replacement is wholesale: old rows are gone, not merged.
	second := []*models.ParameterSchema{
		{ModelID: m.ID, Name: "seed", Title: "Seed", DataType: "integer", SortOrder: &one},
	}
	require.NoError(t, s.ReplaceParameterSchemas(ctx, m.ID, second))

	got, err = s.GetParameterSchemas(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "seed", got[0].Name)
}

func TestParameterSchemaOrdering(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "ordering", "image")

	one := 1
	three := 3
	schemas := []*models.ParameterSchema{
		{ModelID: m.ID, Name: "unsorted", Title: "U", DataType: "string"},
		{ModelID: m.ID, Name: "third", Title: "T", DataType: "string", SortOrder: &three},
		{ModelID: m.ID, Name: "first", Title: "F", DataType: "string", SortOrder: &one},
	}
	require.NoError(t, s.ReplaceParameterSchemas(ctx, m.ID, schemas))

	got, err := s.GetParameterSchemas(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "third", got[1].Name)
	assert.Equal(t, "unsorted", got[2].Name)
}

func TestGetPublicParameterSchemasHidesPrivate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "private", "image")

	schemas := []*models.ParameterSchema{
		{ModelID: m.ID, Name: "prompt", Title: "Prompt", DataType: "string"},
		{ModelID: m.ID, Name: "api_secret", Title: "Secret", DataType: "string", IsPrivate: true},
	}
	require.NoError(t, s.ReplaceParameterSchemas(ctx, m.ID, schemas))

	all, err := s.GetParameterSchemas(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := s.GetPublicParameterSchemas(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "prompt", public[0].Name)
}

// --- Job Tests ---

func TestCreateAndGetJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "runner", "image")
	job := insertJob(t, s, m.ID, "user-1")

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, models.JobStatusPending, got.Status)
	assert.Equal(t, `{"prompt":"a cat"}`, got.InputParams)
	assert.Nil(t, got.Result)
	assert.Nil(t, got.ProviderJobID)

	_, err = s.GetJob(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetUserJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "joined-model", "image")
	require.NoError(t, s.SetModelETA(ctx, m.ID, 45))
	job := insertJob(t, s, m.ID, "user-1")

	got, err := s.GetUserJob(ctx, job.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "joined-model", got.ModelName)
	assert.Equal(t, 45, got.ETASeconds)

	// Jobs are scoped to their owner.
	_, err = s.GetUserJob(ctx, job.ID, "someone-else")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "list-model", "image")
	a := insertJob(t, s, m.ID, "user-1")
	b := insertJob(t, s, m.ID, "user-1")
	insertJob(t, s, m.ID, "user-2")

	require.NoError(t, s.MarkJobProcessing(ctx, b.ID, "prov-b"))

	jobs, total, err := s.ListJobs(ctx, store.JobFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, jobs, 2)

	pending, total, err := s.ListJobs(ctx, store.JobFilter{UserID: "user-1", Status: models.JobStatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, a.ID, pending[0].ID)

	byID, total, err := s.ListJobs(ctx, store.JobFilter{UserID: "user-1", JobIDs: []uuid.UUID{b.ID}})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byID, 1)
	assert.Equal(t, b.ID, byID[0].ID)
	assert.Equal(t, "list-model", byID[0].ModelName)
}

func TestMarkJobProcessing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "cas", "image")
	job := insertJob(t, s, m.ID, "user-1")

	require.NoError(t, s.MarkJobProcessing(ctx, job.ID, "prov-123"))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusProcessing, got.Status)
	require.NotNil(t, got.ProviderJobID)
	assert.Equal(t, "prov-123", *got.ProviderJobID)
	assert.NotNil(t, got.ProcessingAt)

	// Only pending jobs can move to processing.
	err = s.MarkJobProcessing(ctx, job.ID, "prov-456")
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	err = s.MarkJobProcessing(ctx, uuid.New(), "prov-789")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompleteJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "complete", "image")
	job := insertJob(t, s, m.ID, "user-1")
	require.NoError(t, s.MarkJobProcessing(ctx, job.ID, "prov-1"))

	applied, err := s.CompleteJob(ctx, job.ID, `{"url":"https://img"}`, 5.5)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, `{"url":"https://img"}`, *got.Result)
	require.NotNil(t, got.CostToClient)
	assert.Equal(t, 5.5, *got.CostToClient)
	assert.NotNil(t, got.CompletedAt)

	// Duplicate delivery is a no-op, not an error, and the first result
	// stays in place.
	applied, err = s.CompleteJob(ctx, job.ID, `{"url":"https://other"}`, 9)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"url":"https://img"}`, *got.Result)

	_, err = s.CompleteJob(ctx, uuid.New(), `{}`, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFailJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "fail", "image")
	job := insertJob(t, s, m.ID, "user-1")

	// Pending jobs can fail directly, without a processing step.
	applied, err := s.FailJob(ctx, job.ID, `{"error":"provider rejected"}`)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.NotNil(t, got.FailedAt)

	_, err = s.FailJob(ctx, uuid.New(), `{}`)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFailAfterCompleteIsNoOp(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "race", "image")
	job := insertJob(t, s, m.ID, "user-1")
	require.NoError(t, s.MarkJobProcessing(ctx, job.ID, "prov-1"))

	applied, err := s.CompleteJob(ctx, job.ID, `{"url":"https://img"}`, 1)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.FailJob(ctx, job.ID, `{"error":"late"}`)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, got.Status)
}

func TestSoftDeleteJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "delete", "image")
	job := insertJob(t, s, m.ID, "user-1")

	assert.ErrorIs(t, s.SoftDeleteJob(ctx, job.ID, "someone-else"), store.ErrNotFound)

	require.NoError(t, s.SoftDeleteJob(ctx, job.ID, "user-1"))

	_, err := s.GetUserJob(ctx, job.ID, "user-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	jobs, total, err := s.ListJobs(ctx, store.JobFilter{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, jobs)

	// Deleting twice reports not found.
	assert.ErrorIs(t, s.SoftDeleteJob(ctx, job.ID, "user-1"), store.ErrNotFound)
}

func TestSetJobPublic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "public", "image")
	job := insertJob(t, s, m.ID, "user-1")

	require.NoError(t, s.SetJobPublic(ctx, job.ID, "user-1", true))

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	require.NoError(t, s.SetJobPublic(ctx, job.ID, "user-1", false))

	got, err = s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	assert.ErrorIs(t, s.SetJobPublic(ctx, job.ID, "someone-else", true), store.ErrNotFound)
}

func TestListStuckJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "stuck", "image")
	now := time.Now().UTC()

	// Processing job that went quiet an hour ago.
	stale := insertJob(t, s, m.ID, "user-1")
	require.NoError(t, s.MarkJobProcessing(ctx, stale.ID, "prov-stale"))
	_, err := pool.Exec(ctx,
		`UPDATE job SET processing_at = $2 WHERE job_id = $1`, stale.ID, now.Add(-time.Hour))
	require.NoError(t, err)

	// Pending job with no processing_at falls back to created_at.
	orphan := &models.Job{
		ID:            uuid.New(),
		ModelID:       m.ID,
		UserID:        "user-1",
		ProviderType:  models.ProviderTypeModel,
		CorrelationID: uuid.NewString(),
		InputParams:   `{}`,
		CreatedAt:     now.Add(-2 * time.Hour),
	}
	require.NoError(t, s.CreateJob(ctx, orphan))

	// Fresh processing job and a terminal job stay out of the sweep.
	fresh := insertJob(t, s, m.ID, "user-1")
	require.NoError(t, s.MarkJobProcessing(ctx, fresh.ID, "prov-fresh"))
	done := insertJob(t, s, m.ID, "user-1")
	require.NoError(t, s.MarkJobProcessing(ctx, done.ID, "prov-done"))
	_, err = s.CompleteJob(ctx, done.ID, `{}`, 0)
	require.NoError(t, err)

	stuck, err := s.ListStuckJobs(ctx, now.Add(-20*time.Minute))
	require.NoError(t, err)

	ids := make([]uuid.UUID, 0, len(stuck))
	for _, j := range stuck {
		ids = append(ids, j.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{stale.ID, orphan.ID}, ids)
}

func TestListPublicResults(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "gallery", "image")
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		job := insertJob(t, s, m.ID, "user-1")
		markProcessed(t, pool, job.ID, now, now.Add(time.Minute), `{"url":"https://img"}`)
		require.NoError(t, s.SetJobPublic(ctx, job.ID, "user-1", true))
	}
	// Private and non-terminal jobs never show up in the gallery.
	private := insertJob(t, s, m.ID, "user-1")
	markProcessed(t, pool, private.ID, now, now.Add(time.Minute), `{"url":"https://private"}`)
	insertJob(t, s, m.ID, "user-1")

	results, err := s.ListPublicResults(ctx, m.ID, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, `{"url":"https://img"}`, r)
	}

	limited, err := s.ListPublicResults(ctx, m.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListCompletedDurations(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	m := insertModel(t, s, "durations", "image")
	now := time.Now().UTC()

	for _, seconds := range []int{10, 20, 30} {
		job := insertJob(t, s, m.ID, "user-1")
		markProcessed(t, pool, job.ID, now, now.Add(time.Duration(seconds)*time.Second), `{}`)
	}
	// Failed jobs carry no duration sample.
	failed := insertJob(t, s, m.ID, "user-1")
	_, err := s.FailJob(ctx, failed.ID, `{"error":"x"}`)
	require.NoError(t, err)

	durations, err := s.ListCompletedDurations(ctx, m.ID, 10)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second},
		durations)

	limited, err := s.ListCompletedDurations(ctx, m.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
