package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrInvalidTransition is returned when a job status update finds the row
// in a state the transition is not defined for.
var ErrInvalidTransition = errors.New("invalid job status transition")

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	if key.ID == uuid.Nil {
		key.ID = uuid.New()
	}
	if key.CreatedAt.IsZero() {
		now := time.Now().UTC()
		key.CreatedAt = now
		key.UpdatedAt = now
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

// --- Models ---

const modelColumns = `model_id, model_name, model_description, model_type, provider_model_type,
	provider_model_id, thumbnail_url, cost_to_customer, cost_to_client, eta_seconds,
	is_active, deleted, created_at, updated_at`

func scanModel(row pgx.Row) (*models.Model, error) {
	var m models.Model
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.ModelType, &m.ProviderType,
		&m.ProviderModelID, &m.ThumbnailURL, &m.CostToCustomer, &m.CostToClient, &m.ETASeconds,
		&m.IsActive, &m.Deleted, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) GetModel(ctx context.Context, id uuid.UUID) (*models.Model, error) {
	m, err := scanModel(s.pool.QueryRow(ctx,
		`SELECT `+modelColumns+` FROM model WHERE model_id = $1 AND deleted = FALSE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) ListModels(ctx context.Context, filter ModelFilter) ([]*models.Model, int, error) {
	conditions := []string{"deleted = FALSE", "is_active = TRUE"}
	args := []any{}
	argIdx := 1

	if filter.ModelType != "" {
		conditions = append(conditions, fmt.Sprintf("model_type = $%d", argIdx))
		args = append(args, filter.ModelType)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM model WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count models: %w", err)
	}

	limit, offset := normalizePage(filter.Page, filter.Limit)
	dataQuery := fmt.Sprintf(
		`SELECT `+modelColumns+` FROM model WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []*models.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan model: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (s *PostgresStore) UpsertModel(ctx context.Context, m *models.Model) (uuid.UUID, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		now := time.Now().UTC()
		m.CreatedAt = now
		m.UpdatedAt = now
	}

	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO model (model_id, model_name, model_description, model_type, provider_model_type,
		   provider_model_id, thumbnail_url, cost_to_customer, cost_to_client, eta_seconds,
		   is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (provider_model_id) DO UPDATE SET
		   model_name = EXCLUDED.model_name,
		   model_description = EXCLUDED.model_description,
		   model_type = EXCLUDED.model_type,
		   updated_at = NOW()
		 RETURNING model_id`,
		m.ID, m.Name, m.Description, m.ModelType, m.ProviderType,
		m.ProviderModelID, m.ThumbnailURL, m.CostToCustomer, m.CostToClient, m.ETASeconds,
		m.IsActive, m.CreatedAt, m.UpdatedAt).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert model: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) SetModelCostToCustomer(ctx context.Context, id uuid.UUID, cost float64) error {
	return s.updateModel(ctx, id, "cost_to_customer", cost)
}

func (s *PostgresStore) SetModelCostToClient(ctx context.Context, id uuid.UUID, cost float64) error {
	return s.updateModel(ctx, id, "cost_to_client", cost)
}

func (s *PostgresStore) SetModelETA(ctx context.Context, id uuid.UUID, etaSeconds int) error {
	return s.updateModel(ctx, id, "eta_seconds", etaSeconds)
}

func (s *PostgresStore) updateModel(ctx context.Context, id uuid.UUID, column string, value any) error {
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE model SET %s = $2, updated_at = NOW() WHERE model_id = $1`, column),
		id, value)
	if err != nil {
		return fmt.Errorf("update model %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListModelIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT model_id FROM model WHERE deleted = FALSE`)
	if err != nil {
		return nil, fmt.Errorf("list model ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan model id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// --- Parameter Schemas ---

const schemaColumns = `id, model_id, parameter_name, parameter_title, description, data_type,
	is_required, is_private, default_value, allowed_values, min_value, max_value,
	group_tag, sort_order, deleted, created_at, updated_at`

// Schemas are returned in their client-facing order: explicit sort first,
// unsorted rows last. Validation iterates the same order, which fixes the
// output ordering contract of the validator.
const schemaOrder = ` ORDER BY sort_order ASC NULLS LAST, created_at ASC, parameter_name ASC`

func (s *PostgresStore) GetParameterSchemas(ctx context.Context, modelID uuid.UUID) ([]*models.ParameterSchema, error) {
	return s.queryParameterSchemas(ctx,
		`SELECT `+schemaColumns+` FROM model_parameter_config
		 WHERE model_id = $1 AND deleted = FALSE`+schemaOrder, modelID)
}

func (s *PostgresStore) GetPublicParameterSchemas(ctx context.Context, modelID uuid.UUID) ([]*models.ParameterSchema, error) {
	return s.queryParameterSchemas(ctx,
		`SELECT `+schemaColumns+` FROM model_parameter_config
		 WHERE model_id = $1 AND deleted = FALSE AND is_private = FALSE`+schemaOrder, modelID)
}

func (s *PostgresStore) queryParameterSchemas(ctx context.Context, query string, args ...any) ([]*models.ParameterSchema, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get parameter schemas: %w", err)
	}
	defer rows.Close()

	var schemas []*models.ParameterSchema
	for rows.Next() {
		var p models.ParameterSchema
		if err := rows.Scan(&p.ID, &p.ModelID, &p.Name, &p.Title, &p.Description, &p.DataType,
			&p.Required, &p.IsPrivate, &p.DefaultValue, &p.AllowedValues, &p.MinValue, &p.MaxValue,
			&p.GroupTag, &p.SortOrder, &p.Deleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan parameter schema: %w", err)
		}
		schemas = append(schemas, &p)
	}
	return schemas, rows.Err()
}

func (s *PostgresStore) ReplaceParameterSchemas(ctx context.Context, modelID uuid.UUID, schemas []*models.ParameterSchema) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace schemas: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM model_parameter_config WHERE model_id = $1`, modelID); err != nil {
		return fmt.Errorf("clear parameter schemas: %w", err)
	}

	now := time.Now().UTC()
	for _, p := range schemas {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
			p.UpdatedAt = now
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO model_parameter_config (id, model_id, parameter_name, parameter_title,
			   description, data_type, is_required, is_private, default_value, allowed_values,
			   min_value, max_value, group_tag, sort_order, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			p.ID, modelID, p.Name, p.Title, p.Description, p.DataType, p.Required, p.IsPrivate,
			p.DefaultValue, p.AllowedValues, p.MinValue, p.MaxValue, p.GroupTag, p.SortOrder,
			p.CreatedAt, p.UpdatedAt); err != nil {
			return fmt.Errorf("insert parameter schema %s: %w", p.Name, err)
		}
	}

	return tx.Commit(ctx)
}

// --- Jobs ---

const jobColumns = `j.job_id, j.model_id, j.user_id, j.customer_id, j.provider_job_id,
	j.provider_job_type, j.correlation_id, j.input_params, j.result, j.status,
	j.processing_at, j.completed_at, j.failed_at, j.created_at,
	j.cost_to_customer, j.cost_to_client, j.deleted, j.is_public`

func scanJob(row pgx.Row, extra ...any) (*models.Job, error) {
	var j models.Job
	dest := []any{&j.ID, &j.ModelID, &j.UserID, &j.CustomerID, &j.ProviderJobID,
		&j.ProviderType, &j.CorrelationID, &j.InputParams, &j.Result, &j.Status,
		&j.ProcessingAt, &j.CompletedAt, &j.FailedAt, &j.CreatedAt,
		&j.CostToCustomer, &j.CostToClient, &j.Deleted, &j.IsPublic}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO job (job_id, model_id, user_id, customer_id, provider_job_type,
		   correlation_id, input_params, status, cost_to_customer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.ModelID, job.UserID, job.CustomerID, job.ProviderType,
		job.CorrelationID, job.InputParams, models.JobStatusPending, job.CostToCustomer, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	j, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job j WHERE j.job_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) GetUserJob(ctx context.Context, id uuid.UUID, userID string) (*models.Job, error) {
	j, err := scanJobWithModel(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+`, m.model_name, m.eta_seconds
		 FROM job j LEFT JOIN model m ON m.model_id = j.model_id
		 WHERE j.job_id = $1 AND j.user_id = $2 AND j.deleted = FALSE`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user job: %w", err)
	}
	return j, nil
}

func scanJobWithModel(row pgx.Row) (*models.Job, error) {
	var name *string
	var eta *int
	j, err := scanJob(row, &name, &eta)
	if err != nil {
		return nil, err
	}
	if name != nil {
		j.ModelName = *name
	}
	if eta != nil {
		j.ETASeconds = *eta
	}
	return j, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]*models.Job, int, error) {
	conditions := []string{"j.deleted = FALSE", "j.user_id = $1"}
	args := []any{filter.UserID}
	argIdx := 2

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("j.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if len(filter.JobIDs) > 0 {
		conditions = append(conditions, fmt.Sprintf("j.job_id = ANY($%d)", argIdx))
		args = append(args, filter.JobIDs)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM job j WHERE " + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	orderBy := jobSortColumn(filter.SortBy)
	direction := "DESC"
	if !filter.SortDesc && filter.SortBy != "" {
		direction = "ASC"
	}

	limit, offset := normalizePage(filter.Page, filter.Limit)
	dataQuery := fmt.Sprintf(
		`SELECT `+jobColumns+`, m.model_name, m.eta_seconds
		 FROM job j LEFT JOIN model m ON m.model_id = j.model_id
		 WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, orderBy, direction, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJobWithModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

// jobSortColumn whitelists sortable columns; anything else sorts by
// creation time.
func jobSortColumn(sortBy string) string {
	switch sortBy {
	case "status", "completed_at", "processing_at":
		return "j." + sortBy
	default:
		return "j.created_at"
	}
}

// MarkJobProcessing records the provider's job handle and moves a pending
// job to processing. The transition is compare-and-set on status; a job in
// any other state is left untouched.
func (s *PostgresStore) MarkJobProcessing(ctx context.Context, id uuid.UUID, providerJobID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job SET provider_job_id = $2, status = $3, processing_at = NOW()
		 WHERE job_id = $1 AND status = $4`,
		id, providerJobID, models.JobStatusProcessing, models.JobStatusPending)
	if err != nil {
		return fmt.Errorf("mark job processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.classifyMissedUpdate(ctx, id, models.JobStatusProcessing)
	}
	return nil
}

// CompleteJob moves a non-terminal job to completed, recording result and
// client cost. Returns false without error when the job is already
// terminal, so duplicate webhook deliveries are a no-op.
func (s *PostgresStore) CompleteJob(ctx context.Context, id uuid.UUID, result string, costToClient float64) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job SET result = $2, cost_to_client = $3, status = $4, completed_at = NOW()
		 WHERE job_id = $1 AND status = ANY($5)`,
		id, result, costToClient, models.JobStatusCompleted,
		[]string{models.JobStatusPending, models.JobStatusProcessing})
	if err != nil {
		return false, fmt.Errorf("complete job: %w", err)
	}
	return s.resolveTerminalUpdate(ctx, id, tag)
}

// FailJob moves a non-terminal job to failed. Same idempotence contract as
// CompleteJob.
func (s *PostgresStore) FailJob(ctx context.Context, id uuid.UUID, result string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job SET result = $2, status = $3, failed_at = NOW()
		 WHERE job_id = $1 AND status = ANY($4)`,
		id, result, models.JobStatusFailed,
		[]string{models.JobStatusPending, models.JobStatusProcessing})
	if err != nil {
		return false, fmt.Errorf("fail job: %w", err)
	}
	return s.resolveTerminalUpdate(ctx, id, tag)
}

func (s *PostgresStore) resolveTerminalUpdate(ctx context.Context, id uuid.UUID, tag pgconn.CommandTag) (bool, error) {
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	var exists bool
	if err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job WHERE job_id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check job exists: %w", err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

func (s *PostgresStore) classifyMissedUpdate(ctx context.Context, id uuid.UUID, target string) error {
	var current string
	err := s.pool.QueryRow(ctx, `SELECT status FROM job WHERE job_id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, target)
}

func (s *PostgresStore) SoftDeleteJob(ctx context.Context, id uuid.UUID, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job SET deleted = TRUE WHERE job_id = $1 AND user_id = $2 AND deleted = FALSE`,
		id, userID)
	if err != nil {
		return fmt.Errorf("soft delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SetJobPublic(ctx context.Context, id uuid.UUID, userID string, public bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE job SET is_public = $3 WHERE job_id = $1 AND user_id = $2 AND deleted = FALSE`,
		id, userID, public)
	if err != nil {
		return fmt.Errorf("set job public: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListStuckJobs(ctx context.Context, before time.Time) ([]*models.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM job j
		 WHERE j.status = ANY($1) AND COALESCE(j.processing_at, j.created_at) < $2`,
		[]string{models.JobStatusPending, models.JobStatusProcessing}, before)
	if err != nil {
		return nil, fmt.Errorf("list stuck jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stuck job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *PostgresStore) ListPublicResults(ctx context.Context, modelID uuid.UUID, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT result FROM job
		 WHERE model_id = $1 AND is_public = TRUE AND status = $2
		   AND deleted = FALSE AND result IS NOT NULL
		 ORDER BY created_at DESC LIMIT $3`,
		modelID, models.JobStatusCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("list public results: %w", err)
	}
	defer rows.Close()

	var results []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan public result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *PostgresStore) ListCompletedDurations(ctx context.Context, modelID uuid.UUID, limit int) ([]time.Duration, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT processing_at, completed_at FROM job
		 WHERE model_id = $1 AND status = $2 AND deleted = FALSE
		   AND processing_at IS NOT NULL AND completed_at IS NOT NULL
		 ORDER BY completed_at DESC LIMIT $3`,
		modelID, models.JobStatusCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("list completed durations: %w", err)
	}
	defer rows.Close()

	var durations []time.Duration
	for rows.Next() {
		var processingAt, completedAt time.Time
		if err := rows.Scan(&processingAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan job duration: %w", err)
		}
		durations = append(durations, completedAt.Sub(processingAt))
	}
	return durations, rows.Err()
}

// normalizePage clamps pagination to sane bounds and converts to
// limit/offset.
func normalizePage(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
