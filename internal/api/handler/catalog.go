package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fluxuro/uro-client-template-api/internal/api/response"
	"github.com/fluxuro/uro-client-template-api/internal/cache"
	"github.com/fluxuro/uro-client-template-api/internal/store"
	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	galleryLimit    = 12
	galleryCacheTTL = time.Minute
)

// GalleryCache holds rendered gallery payloads briefly; the underlying
// query scans a model's completed jobs on every miss.
type GalleryCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CatalogStore defines the store subset the catalog read handlers depend on.
type CatalogStore interface {
	ListModels(ctx context.Context, filter store.ModelFilter) ([]*models.Model, int, error)
	GetModel(ctx context.Context, id uuid.UUID) (*models.Model, error)
	GetPublicParameterSchemas(ctx context.Context, modelID uuid.UUID) ([]*models.ParameterSchema, error)
	ListPublicResults(ctx context.Context, modelID uuid.UUID, limit int) ([]string, error)
}

// NewListModelsHandler returns an http.HandlerFunc for GET /api/v1/models.
func NewListModelsHandler(s CatalogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.ModelFilter{
			ModelType: r.URL.Query().Get("model_type"),
			Page:      queryInt(r, "page", 1),
			Limit:     queryInt(r, "limit", 20),
		}

		list, total, err := s.ListModels(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		response.Collection(w, list, response.PaginationMeta{
			Page:    filter.Page,
			Limit:   filter.Limit,
			Total:   total,
			HasNext: filter.Page*filter.Limit < total,
		})
	}
}

// NewGetModelHandler returns an http.HandlerFunc for GET /api/v1/models/{modelID}.
// The detail view includes the model's public parameter schemas and a small
// gallery of recent public results. galleries may be nil.
func NewGetModelHandler(s CatalogStore, galleries GalleryCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modelID, err := uuid.Parse(chi.URLParam(r, "modelID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "modelID must be a valid UUID", nil)
			return
		}

		model, err := s.GetModel(r.Context(), modelID)
		if err != nil {
			writeError(w, err)
			return
		}

		schemas, err := s.GetPublicParameterSchemas(r.Context(), modelID)
		if err != nil {
			writeError(w, err)
			return
		}

		gallery, err := loadGallery(r.Context(), s, galleries, modelID)
		if err != nil {
			writeError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"model":      model,
			"parameters": schemas,
			"gallery":    gallery,
		})
	}
}

// galleryEntry is one public gallery item: the leading image of a job result.
type galleryEntry struct {
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// loadGallery serves the gallery from cache when possible; cache failures
// fall through to the store.
func loadGallery(ctx context.Context, s CatalogStore, galleries GalleryCache, modelID uuid.UUID) ([]galleryEntry, error) {
	key := cache.PublicResultsKey(modelID, galleryLimit)
	if galleries != nil {
		if data, ok, err := galleries.Get(ctx, key); err == nil && ok {
			var gallery []galleryEntry
			if err := json.Unmarshal(data, &gallery); err == nil {
				return gallery, nil
			}
		}
	}

	raw, err := s.ListPublicResults(ctx, modelID, galleryLimit)
	if err != nil {
		return nil, err
	}
	gallery := galleryEntries(raw)
	if galleries != nil {
		if data, err := json.Marshal(gallery); err == nil {
			galleries.Set(ctx, key, data, galleryCacheTTL)
		}
	}
	return gallery, nil
}

// galleryEntries extracts the first entry of each stored result, keeping only
// image entries. Results that fail to parse are skipped.
func galleryEntries(raw []string) []galleryEntry {
	gallery := make([]galleryEntry, 0, len(raw))
	for _, r := range raw {
		var parsed []galleryEntry
		if err := json.Unmarshal([]byte(r), &parsed); err != nil || len(parsed) == 0 {
			continue
		}
		if parsed[0].ContentType != "image" {
			continue
		}
		gallery = append(gallery, parsed[0])
	}
	return gallery
}
