package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job tracks one submitted generation run end-to-end. Status only moves
// forward: pending -> processing -> completed or failed. ProviderJobID is
// the provider's own handle, recorded on the processing transition;
// CorrelationID is minted by us and echoed back in webhook callbacks.
type Job struct {
	ID             uuid.UUID  `db:"job_id"            json:"job_id"`
	ModelID        uuid.UUID  `db:"model_id"          json:"model_id"`
	UserID         string     `db:"user_id"           json:"user_id"`
	CustomerID     *string    `db:"customer_id"       json:"customer_id,omitempty"`
	ProviderJobID  *string    `db:"provider_job_id"   json:"provider_job_id,omitempty"`
	ProviderType   string     `db:"provider_job_type" json:"provider_job_type"`
	CorrelationID  string     `db:"correlation_id"    json:"-"`
	InputParams    string     `db:"input_params"      json:"-"`
	Result         *string    `db:"result"            json:"-"`
	Status         string     `db:"status"            json:"status"`
	ProcessingAt   *time.Time `db:"processing_at"     json:"processing_at,omitempty"`
	CompletedAt    *time.Time `db:"completed_at"      json:"completed_at,omitempty"`
	FailedAt       *time.Time `db:"failed_at"         json:"failed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at"        json:"created_at"`
	CostToCustomer float64    `db:"cost_to_customer"  json:"cost_to_customer"`
	CostToClient   *float64   `db:"cost_to_client"    json:"-"`
	Deleted        bool       `db:"deleted"           json:"-"`
	IsPublic       bool       `db:"is_public"         json:"job_public"`

	// Joined from the model row on read paths; not a job column.
	ModelName  string `db:"model_name" json:"model_name,omitempty"`
	ETASeconds int    `db:"eta_seconds" json:"model_eta,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// DecodedInputParams parses the stored input params, falling back to the
// raw string when it is not valid JSON.
func (j *Job) DecodedInputParams() any {
	return decodeOrRaw(j.InputParams)
}

// DecodedResult parses the stored result, falling back to the raw string
// when it is not valid JSON. Returns nil before a terminal state.
func (j *Job) DecodedResult() any {
	if j.Result == nil {
		return nil
	}
	return decodeOrRaw(*j.Result)
}

func decodeOrRaw(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
