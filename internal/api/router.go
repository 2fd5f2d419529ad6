package api

import (
	"net/http"

	mw "github.com/fluxuro/uro-client-template-api/internal/api/middleware"
	"github.com/fluxuro/uro-client-template-api/internal/api/response"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	AllowedOrigins []string

	HealthHandler          http.HandlerFunc
	RunModelHandler        http.HandlerFunc
	ModelWebhookHandler    http.HandlerFunc
	WorkflowWebhookHandler http.HandlerFunc
	ListModelsHandler      http.HandlerFunc
	GetModelHandler        http.HandlerFunc
	ListJobsHandler        http.HandlerFunc
	GetJobHandler          http.HandlerFunc
	JobStatusHandler       http.HandlerFunc
	DeleteJobHandler       http.HandlerFunc
	JobPublicityHandler    http.HandlerFunc
	JobImagesHandler       http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(deps.AllowedOrigins),
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Provider callbacks are unauthenticated; the provider retries on
	// non-2xx so these must always be reachable.
	r.Post("/webhooks/model/{jobID}", orNotImplemented(deps.ModelWebhookHandler))
	r.Post("/webhooks/workflow/{jobID}", orNotImplemented(deps.WorkflowWebhookHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.With(deps.Auth.RequireScope("models:run")).
			Post("/api/v1/models/run-model", orNotImplemented(deps.RunModelHandler))

		r.Get("/api/v1/models", orNotImplemented(deps.ListModelsHandler))
		r.Get("/api/v1/models/{modelID}", orNotImplemented(deps.GetModelHandler))

		r.Get("/api/v1/jobs", orNotImplemented(deps.ListJobsHandler))
		r.Get("/api/v1/jobs/images", orNotImplemented(deps.JobImagesHandler))
		r.Get("/api/v1/jobs/{jobID}", orNotImplemented(deps.GetJobHandler))
		r.Get("/api/v1/jobs/{jobID}/status", orNotImplemented(deps.JobStatusHandler))
		r.Post("/api/v1/jobs/delete", orNotImplemented(deps.DeleteJobHandler))
		r.Post("/api/v1/jobs/publicity", orNotImplemented(deps.JobPublicityHandler))
	})

	return r
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
