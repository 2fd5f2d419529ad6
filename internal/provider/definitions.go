package provider

import (
	"bytes"
	"strconv"
)

// ModelDefinition is the provider's description of a hosted model.
type ModelDefinition struct {
	ModelID     string                `json:"model_id"`
	Name        string                `json:"model_name"`
	ModelType   string                `json:"model_type"`
	Description string                `json:"model_description"`
	Parameters  []ParameterDefinition `json:"parameters"`
}

// WorkflowDefinition is the provider's description of a hosted workflow.
// Same invocation shape as a model, distinct API.
type WorkflowDefinition struct {
	WorkflowDefinitionID string                `json:"workflow_definition_id"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	Parameters           []ParameterDefinition `json:"parameters"`
}

// ParameterDefinition is one parameter of a provider model or workflow.
// Boolean flags arrive as "1"/"0" strings, numbers, or booleans depending
// on the endpoint.
type ParameterDefinition struct {
	Title         string   `json:"parameter_title"`
	Name          string   `json:"parameter_name"`
	DataType      string   `json:"data_type"`
	DefaultValue  *string  `json:"default_value"`
	Required      FlexBool `json:"is_required"`
	Private       FlexBool `json:"is_private"`
	AllowedValues *string  `json:"allowed_values"`
	MinValue      *float64 `json:"allowed_min_value"`
	MaxValue      *float64 `json:"allowed_max_value"`
	Description   *string  `json:"description"`
	GroupTag      *string  `json:"group_tag"`
}

// FlexBool unmarshals true/false, 1/0, and "1"/"0"/"true"/"false".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	switch string(data) {
	case "1", "true", "TRUE", "True":
		*b = true
	default:
		*b = false
	}
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatBool(bool(b))), nil
}
