package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/fluxuro/uro-client-template-api/internal/api/response"
	"github.com/fluxuro/uro-client-template-api/internal/store"
	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// JobStore defines the store subset the job read handlers depend on.
type JobStore interface {
	ListJobs(ctx context.Context, filter store.JobFilter) ([]*models.Job, int, error)
	GetUserJob(ctx context.Context, id uuid.UUID, userID string) (*models.Job, error)
	SoftDeleteJob(ctx context.Context, id uuid.UUID, userID string) error
	SetJobPublic(ctx context.Context, id uuid.UUID, userID string, public bool) error
}

// jobView is the client-facing job shape: stored JSON columns are decoded
// before serialization.
type jobView struct {
	*models.Job
	InputParams any `json:"input_params"`
	Result      any `json:"result,omitempty"`
}

func newJobView(j *models.Job) jobView {
	return jobView{Job: j, InputParams: j.DecodedInputParams(), Result: j.DecodedResult()}
}

// NewListJobsHandler returns an http.HandlerFunc for GET /api/v1/jobs.
func NewListJobsHandler(s JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}

		filter := store.JobFilter{
			UserID:   userID,
			Status:   r.URL.Query().Get("status"),
			SortBy:   r.URL.Query().Get("sort_by"),
			SortDesc: r.URL.Query().Get("order") != "asc",
			Page:     queryInt(r, "page", 1),
			Limit:    queryInt(r, "limit", 20),
		}
		if ids := r.URL.Query().Get("job_ids"); ids != "" {
			for _, raw := range strings.Split(ids, ",") {
				id, err := uuid.Parse(strings.TrimSpace(raw))
				if err != nil {
					response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
						"job_ids must be a comma-separated list of UUIDs", nil)
					return
				}
				filter.JobIDs = append(filter.JobIDs, id)
			}
		}

		jobs, total, err := s.ListJobs(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}

		views := make([]jobView, 0, len(jobs))
		for _, j := range jobs {
			views = append(views, newJobView(j))
		}
		response.Collection(w, views, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
func NewGetJobHandler(s JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobID must be a valid UUID", nil)
			return
		}
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}

		job, err := s.GetUserJob(r.Context(), jobID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, newJobView(job))
	}
}

// StatusReader answers job status lookups from the cache.
type StatusReader interface {
	GetJobStatus(ctx context.Context, jobID uuid.UUID) (string, bool, error)
}

// NewJobStatusHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}/status.
// This is the polling endpoint: every transition is written to the status
// cache, so most polls are answered without touching the database. A cache
// miss falls back to the store.
func NewJobStatusHandler(s JobStore, statuses StatusReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "jobID must be a valid UUID", nil)
			return
		}
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}

		if statuses != nil {
			if status, ok, err := statuses.GetJobStatus(r.Context(), jobID); err == nil && ok {
				response.JSON(w, map[string]string{"job_id": jobID.String(), "status": status})
				return
			}
		}

		job, err := s.GetUserJob(r.Context(), jobID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, map[string]string{"job_id": jobID.String(), "status": job.Status})
	}
}

// NewDeleteJobHandler returns an http.HandlerFunc for POST /api/v1/jobs/delete.
func NewDeleteJobHandler(s JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID  string `json:"job_id"`
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job_id must be a valid UUID", nil)
			return
		}
		if req.UserID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}

		if err := s.SoftDeleteJob(r.Context(), jobID, req.UserID); err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, map[string]string{"job_id": jobID.String(), "status": "deleted"})
	}
}

// NewJobPublicityHandler returns an http.HandlerFunc for POST /api/v1/jobs/publicity.
// Only completed jobs whose result passed moderation can be made public.
func NewJobPublicityHandler(s JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JobID  string `json:"job_id"`
			UserID string `json:"user_id"`
			Public bool   `json:"job_public"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "job_id must be a valid UUID", nil)
			return
		}
		if req.UserID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}

		job, err := s.GetUserJob(r.Context(), jobID, req.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		if req.Public {
			if job.Status != models.JobStatusCompleted {
				response.Error(w, http.StatusBadRequest, "JOB_NOT_COMPLETED",
					"Only completed jobs can be made public", nil)
				return
			}
			if job.Result != nil && strings.Contains(*job.Result, "NSFW") {
				response.Error(w, http.StatusBadRequest, "CONTENT_FLAGGED",
					"This result cannot be made public", nil)
				return
			}
		}

		if err := s.SetJobPublic(r.Context(), jobID, req.UserID, req.Public); err != nil {
			writeError(w, err)
			return
		}
		response.JSON(w, map[string]any{"job_id": jobID.String(), "job_public": req.Public})
	}
}

// NewJobImagesHandler returns an http.HandlerFunc for GET /api/v1/jobs/images.
// It pages through a user's completed jobs and returns the image URLs found
// in their results.
func NewJobImagesHandler(s JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "user_id is required", nil)
			return
		}

		filter := store.JobFilter{
			UserID:   userID,
			Status:   models.JobStatusCompleted,
			SortDesc: true,
			Page:     queryInt(r, "page", 1),
			Limit:    queryInt(r, "limit", 20),
		}
		jobs, total, err := s.ListJobs(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}

		images := []string{}
		for _, j := range jobs {
			if j.Result == nil {
				continue
			}
			images = append(images, extractImageURLs(*j.Result)...)
		}
		response.Collection(w, images, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

// extractImageURLs pulls image URLs out of a stored result payload. Results
// carry either an "images" list or loose URL strings.
func extractImageURLs(result string) []string {
	var decoded any
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		if strings.HasPrefix(result, "http") {
			return []string{result}
		}
		return nil
	}
	return collectURLs(decoded)
}

func collectURLs(v any) []string {
	switch t := v.(type) {
	case string:
		if strings.HasPrefix(t, "http") {
			return []string{t}
		}
	case []any:
		var urls []string
		for _, item := range t {
			urls = append(urls, collectURLs(item)...)
		}
		return urls
	case map[string]any:
		var urls []string
		for _, item := range t {
			urls = append(urls, collectURLs(item)...)
		}
		return urls
	}
	return nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
