package jobrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fluxuro/uro-client-template-api/internal/params"
	"github.com/fluxuro/uro-client-template-api/internal/provider"
	"github.com/fluxuro/uro-client-template-api/internal/store"
	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
)

// RunRequest is one job submission from a client.
type RunRequest struct {
	ModelID    uuid.UUID
	Params     map[string]any
	UserID     string
	CustomerID *string
}

// RunResult is the synchronous acknowledgement returned to the client; the
// final result arrives later via webhook.
type RunResult struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// Runner is the run-model use case: resolve the model, validate parameters,
// create the job, dispatch to the provider, and interpret the immediate
// response.
type Runner struct {
	store          Store
	gateway        provider.Gateway
	ledger         BalanceLedger
	jobs           *Lifecycle
	webhookBaseURL string
}

// NewRunner creates a Runner. webhookBaseURL is the externally reachable
// base the provider calls back on.
func NewRunner(s Store, gw provider.Gateway, ledger BalanceLedger, jobs *Lifecycle, webhookBaseURL string) *Runner {
	return &Runner{
		store:          s,
		gateway:        gw,
		ledger:         ledger,
		jobs:           jobs,
		webhookBaseURL: webhookBaseURL,
	}
}

// RunModel submits one generation job. Any failure after the job row exists
// fails the job with the error message as its result before returning.
func (r *Runner) RunModel(ctx context.Context, req RunRequest) (*RunResult, error) {
	model, err := r.store.GetModel(ctx, req.ModelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, req.ModelID)
		}
		return nil, err
	}

	schemas, err := r.store.GetParameterSchemas(ctx, req.ModelID)
	if err != nil {
		return nil, err
	}

	correlationID := uuid.NewString()

	validated, err := params.Validate(req.Params, schemas)
	if err != nil {
		return nil, err
	}

	customerID := ""
	if req.CustomerID != nil {
		customerID = *req.CustomerID
	}
	balance, err := r.ledger.Balance(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if balance < model.CostToCustomer {
		return nil, ErrInsufficientBalance
	}

	inputParams, err := validated.MarshalJSON()
	if err != nil {
		return nil, err
	}
	job := &models.Job{
		ModelID:        model.ID,
		UserID:         req.UserID,
		CustomerID:     req.CustomerID,
		ProviderType:   model.ProviderType,
		CorrelationID:  correlationID,
		InputParams:    string(inputParams),
		CostToCustomer: model.CostToCustomer,
	}
	if err := r.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	result, err := r.dispatch(ctx, model, job, validated, correlationID, customerID)
	if err != nil {
		r.compensate(ctx, job, customerID, err)
		return nil, err
	}
	return result, nil
}

func (r *Runner) dispatch(ctx context.Context, model *models.Model, job *models.Job, validated *params.Validated, correlationID, customerID string) (*RunResult, error) {
	if err := r.ledger.Reserve(ctx, customerID, model.CostToCustomer, job.ID); err != nil {
		return nil, err
	}

	var res *provider.RunResult
	var err error
	switch model.ProviderType {
	case models.ProviderTypeWorkflow:
		res, err = r.gateway.RunWorkflow(ctx, provider.RunWorkflowRequest{
			Params:               validated,
			WorkflowDefinitionID: model.ProviderModelID,
			WebhookURL:           fmt.Sprintf("%s/webhooks/workflow/%s", r.webhookBaseURL, job.ID),
			CorrelationID:        correlationID,
		})
	default:
		res, err = r.gateway.RunModel(ctx, provider.RunModelRequest{
			Params:        validated,
			ModelID:       model.ProviderModelID,
			WebhookURL:    fmt.Sprintf("%s/webhooks/model/%s", r.webhookBaseURL, job.ID),
			CorrelationID: correlationID,
		})
	}
	if err != nil {
		return nil, err
	}

	if err := r.jobs.MarkProcessing(ctx, job.ID, res.ProviderJobID); err != nil {
		return nil, err
	}

	if res.Status != models.JobStatusProcessing && res.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProvider, res.Error)
	}
	return &RunResult{JobID: job.ID, Status: models.JobStatusProcessing}, nil
}

// compensate fails the job with the error as its result and releases the
// balance reservation. Failures here are logged, not surfaced; the original
// error is what the caller sees.
func (r *Runner) compensate(ctx context.Context, job *models.Job, customerID string, cause error) {
	slog.Error("run model failed",
		"job_id", job.ID,
		"model_id", job.ModelID,
		"user_id", job.UserID,
		"error", cause,
	)
	if err := r.jobs.Fail(ctx, job.ID, map[string]string{"error": cause.Error()}); err != nil {
		slog.Error("failed to fail job after run error", "job_id", job.ID, "error", err)
	}
	if err := r.ledger.Release(ctx, customerID, job.CostToCustomer, job.ID); err != nil {
		slog.Error("failed to release balance reservation", "job_id", job.ID, "error", err)
	}
}
