package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/fluxuro/uro-client-template-api/internal/jobrun"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CallbackReconciler defines the interface the webhook handlers depend on.
type CallbackReconciler interface {
	HandleModelCallback(ctx context.Context, jobID uuid.UUID, cb jobrun.ModelCallback)
	HandleWorkflowCallback(ctx context.Context, jobID uuid.UUID, cb jobrun.WorkflowCallback)
}

// NewModelWebhookHandler returns an http.HandlerFunc for POST /webhooks/model/{jobID}.
// The provider retries on non-2xx, so the handler always acknowledges with
// the request body echoed back; malformed callbacks are logged and dropped.
func NewModelWebhookHandler(rec CallbackReconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		defer ack(w, body)

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			slog.Warn("model callback with invalid job id", "job_id", chi.URLParam(r, "jobID"))
			return
		}

		var cb jobrun.ModelCallback
		if err := json.Unmarshal(body, &cb); err != nil {
			slog.Warn("model callback with invalid body", "job_id", jobID, "error", err)
			return
		}

		rec.HandleModelCallback(r.Context(), jobID, cb)
	}
}

// NewWorkflowWebhookHandler returns an http.HandlerFunc for POST /webhooks/workflow/{jobID}.
func NewWorkflowWebhookHandler(rec CallbackReconciler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		defer ack(w, body)

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			slog.Warn("workflow callback with invalid job id", "job_id", chi.URLParam(r, "jobID"))
			return
		}

		var cb jobrun.WorkflowCallback
		if err := json.Unmarshal(body, &cb); err != nil {
			slog.Warn("workflow callback with invalid body", "job_id", jobID, "error", err)
			return
		}
		cb.Raw = body

		rec.HandleWorkflowCallback(r.Context(), jobID, cb)
	}
}

// ack echoes the callback body with a 200 regardless of how processing went.
func ack(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if len(body) == 0 {
		w.Write([]byte("{}"))
		return
	}
	w.Write(body)
}
