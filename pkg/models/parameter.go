package models

import (
	"time"

	"github.com/google/uuid"
)

// ParameterSchema describes one configurable input of a model or workflow.
// Rows are written by the catalog sync process and read-only to the
// validation pipeline. Private parameters are hidden from clients but still
// validated and forwarded to the provider.
type ParameterSchema struct {
	ID            uuid.UUID `db:"id"             json:"id"`
	ModelID       uuid.UUID `db:"model_id"       json:"model_id"`
	Name          string    `db:"parameter_name" json:"parameter_name"`
	Title         string    `db:"parameter_title" json:"parameter_title"`
	Description   *string   `db:"description"    json:"description,omitempty"`
	DataType      string    `db:"data_type"      json:"data_type"`
	Required      bool      `db:"is_required"    json:"is_required"`
	IsPrivate     bool      `db:"is_private"     json:"-"`
	DefaultValue  *string   `db:"default_value"  json:"default_value,omitempty"`
	AllowedValues *string   `db:"allowed_values" json:"allowed_values,omitempty"`
	MinValue      *float64  `db:"min_value"      json:"min_value,omitempty"`
	MaxValue      *float64  `db:"max_value"      json:"max_value,omitempty"`
	GroupTag      *string   `db:"group_tag"      json:"group_tag,omitempty"`
	SortOrder     *int      `db:"sort_order"     json:"sort_order,omitempty"`
	Deleted       bool      `db:"deleted"        json:"-"`
	CreatedAt     time.Time `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updated_at"`
}
