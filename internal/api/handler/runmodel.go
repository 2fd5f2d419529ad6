package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fluxuro/uro-client-template-api/internal/api/response"
	"github.com/fluxuro/uro-client-template-api/internal/jobrun"
	"github.com/google/uuid"
)

// ModelRunner defines the interface the run-model handler depends on.
type ModelRunner interface {
	RunModel(ctx context.Context, req jobrun.RunRequest) (*jobrun.RunResult, error)
}

// NewRunModelHandler returns an http.HandlerFunc for POST /api/v1/models/run-model.
func NewRunModelHandler(runner ModelRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ModelID    string         `json:"model_id"`
			Params     map[string]any `json:"params"`
			UserID     string         `json:"user_id"`
			CustomerID *string        `json:"customer_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.ModelID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "model_id is required", nil)
			return
		}
		modelID, err := uuid.Parse(req.ModelID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "model_id must be a valid UUID", nil)
			return
		}
		if req.UserID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}
		if req.Params == nil {
			req.Params = map[string]any{}
		}

		result, err := runner.RunModel(r.Context(), jobrun.RunRequest{
			ModelID:    modelID,
			Params:     req.Params,
			UserID:     req.UserID,
			CustomerID: req.CustomerID,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		response.Accepted(w, result)
	}
}
