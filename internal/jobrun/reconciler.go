package jobrun

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// ModelCallback is the payload the provider posts back for a model run.
type ModelCallback struct {
	Success      bool            `json:"success"`
	Results      json.RawMessage `json:"results"`
	Error        json.RawMessage `json:"error"`
	CostToClient float64         `json:"cost_to_client"`
}

// WorkflowCallback is the payload the provider posts back for a workflow
// run. Raw holds the full body so non-completed callbacks can be stored
// as-is for diagnosis.
type WorkflowCallback struct {
	Status       string          `json:"status"`
	Results      json.RawMessage `json:"results"`
	CostToClient float64         `json:"cost_to_client"`
	Raw          json.RawMessage `json:"-"`
}

// Reconciler applies provider callbacks to jobs. It never propagates
// errors upward: the webhook endpoints always acknowledge, and a callback
// for an unknown job is dropped so the provider does not retry forever.
type Reconciler struct {
	jobs *Lifecycle
}

func NewReconciler(jobs *Lifecycle) *Reconciler {
	return &Reconciler{jobs: jobs}
}

// HandleModelCallback completes or fails the job per the callback's
// success flag.
func (r *Reconciler) HandleModelCallback(ctx context.Context, jobID uuid.UUID, cb ModelCallback) {
	var err error
	if cb.Success {
		err = r.jobs.Complete(ctx, jobID, cb.Results, cb.CostToClient)
	} else {
		err = r.jobs.Fail(ctx, jobID, cb.Error)
	}
	r.report(jobID, err)
}

// HandleWorkflowCallback completes the job on a "completed" status and
// fails it on anything else, storing the full callback body as the result
// so the provider's reason is not lost.
func (r *Reconciler) HandleWorkflowCallback(ctx context.Context, jobID uuid.UUID, cb WorkflowCallback) {
	var err error
	if cb.Status == "completed" {
		err = r.jobs.Complete(ctx, jobID, workflowResults(cb.Results), cb.CostToClient)
	} else {
		err = r.jobs.Fail(ctx, jobID, cb.Raw)
	}
	r.report(jobID, err)
}

func (r *Reconciler) report(jobID uuid.UUID, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrJobNotFound) {
		slog.Warn("callback for unknown job dropped", "job_id", jobID)
		return
	}
	slog.Error("failed to apply callback", "job_id", jobID, "error", err)
}

// workflowResults unwraps the inner "results" field when present;
// workflow callbacks sometimes nest the payload one level deeper than
// model callbacks.
func workflowResults(results json.RawMessage) json.RawMessage {
	var wrapper struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(results, &wrapper); err == nil && len(wrapper.Results) > 0 {
		return wrapper.Results
	}
	return results
}
