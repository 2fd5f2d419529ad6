// Package models contains shared data models used across the codebase.
package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// ProviderTypeModel marks a catalog entry backed by a provider model run.
	ProviderTypeModel = "model"
	// ProviderTypeWorkflow marks a catalog entry backed by a provider workflow run.
	ProviderTypeWorkflow = "workflow"
)

// Model is one invocable generation unit in the catalog. It mirrors a model
// or workflow definition hosted by the provider; the sync process keeps the
// parameter schemas for it in model_parameter_config.
type Model struct {
	ID               uuid.UUID `db:"model_id"            json:"model_id"`
	Name             string    `db:"model_name"          json:"model_name"`
	Description      string    `db:"model_description"   json:"model_description"`
	ModelType        string    `db:"model_type"          json:"model_type"`
	ProviderType     string    `db:"provider_model_type" json:"provider_model_type"`
	ProviderModelID  string    `db:"provider_model_id"   json:"provider_model_id"`
	ThumbnailURL     string    `db:"thumbnail_url"       json:"thumbnail_url"`
	CostToCustomer   float64   `db:"cost_to_customer"    json:"cost_to_customer"`
	CostToClient     float64   `db:"cost_to_client"      json:"-"`
	ETASeconds       int       `db:"eta_seconds"         json:"model_eta"`
	IsActive         bool      `db:"is_active"           json:"is_active"`
	Deleted          bool      `db:"deleted"             json:"-"`
	CreatedAt        time.Time `db:"created_at"          json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"          json:"updated_at"`
}
