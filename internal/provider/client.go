// Package provider implements the HTTP client for the external generation
// service that executes model and workflow jobs and reports results via
// webhook.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Sentinel errors for provider gateway failures.
var (
	ErrProviderUnreachable = errors.New("provider unreachable")
	ErrProviderStatus      = errors.New("provider returned unexpected status")
	ErrProviderTimeout     = errors.New("provider request timeout")
)

// Gateway is the interface for submitting runs to the provider and reading
// its catalog.
type Gateway interface {
	RunModel(ctx context.Context, req RunModelRequest) (*RunResult, error)
	RunWorkflow(ctx context.Context, req RunWorkflowRequest) (*RunResult, error)
	GetModelByID(ctx context.Context, id string) (*ModelDefinition, error)
	GetWorkflowByID(ctx context.Context, id string) (*WorkflowDefinition, error)
}

// RunModelRequest submits a model run. Params are spread at the top level
// of the request body, in validated order, with the routing fields
// appended.
type RunModelRequest struct {
	Params        json.Marshaler
	ModelID       string
	WebhookURL    string
	CorrelationID string
}

// RunWorkflowRequest submits a workflow run; params are nested under
// input_params.
type RunWorkflowRequest struct {
	Params               json.Marshaler
	WorkflowDefinitionID string
	WebhookURL           string
	CorrelationID        string
}

// RunResult is the provider's synchronous acknowledgement of a submission.
type RunResult struct {
	ProviderJobID string
	Status        string
	Error         string
}

// HTTPClient implements Gateway against the provider's HTTP API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient creates a new provider HTTP client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type runModelResponse struct {
	ImageJobID string `json:"image_job_id"`
	Status     string `json:"status"`
	Error      string `json:"error"`
}

type runWorkflowResponse struct {
	WorkflowJobID string `json:"workflow_job_id"`
	Status        string `json:"status"`
	Error         string `json:"error"`
}

func (c *HTTPClient) RunModel(ctx context.Context, req RunModelRequest) (*RunResult, error) {
	body, err := spliceFields(req.Params,
		field{"model_id", req.ModelID},
		field{"custom_webhook", req.WebhookURL},
		field{"custom_task_uuid", req.CorrelationID})
	if err != nil {
		return nil, fmt.Errorf("encoding run-model body: %w", err)
	}

	var resp runModelResponse
	if err := c.post(ctx, "/models/run", body, &resp); err != nil {
		return nil, err
	}
	return &RunResult{ProviderJobID: resp.ImageJobID, Status: resp.Status, Error: resp.Error}, nil
}

func (c *HTTPClient) RunWorkflow(ctx context.Context, req RunWorkflowRequest) (*RunResult, error) {
	params, err := req.Params.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encoding workflow params: %w", err)
	}
	body, err := json.Marshal(struct {
		InputParams          json.RawMessage `json:"input_params"`
		WorkflowDefinitionID string          `json:"workflow_definition_id"`
		CustomWebhook        string          `json:"custom_webhook"`
		CustomTaskUUID       string          `json:"custom_task_uuid"`
	}{params, req.WorkflowDefinitionID, req.WebhookURL, req.CorrelationID})
	if err != nil {
		return nil, fmt.Errorf("encoding run-workflow body: %w", err)
	}

	var resp runWorkflowResponse
	if err := c.post(ctx, "/workflows/run", body, &resp); err != nil {
		return nil, err
	}
	return &RunResult{ProviderJobID: resp.WorkflowJobID, Status: resp.Status, Error: resp.Error}, nil
}

func (c *HTTPClient) GetModelByID(ctx context.Context, id string) (*ModelDefinition, error) {
	var def ModelDefinition
	if err := c.get(ctx, "/models/"+id, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *HTTPClient) GetWorkflowByID(ctx context.Context, id string) (*WorkflowDefinition, error) {
	var def WorkflowDefinition
	if err := c.get(ctx, "/workflows/"+id, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(httpReq, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrProviderStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding provider response: %w", err)
	}
	return nil
}

func classifyError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
}

type field struct {
	key   string
	value string
}

// spliceFields appends string fields to an already-marshaled JSON object
// without disturbing the order of its existing keys.
func spliceFields(obj json.Marshaler, fields ...field) ([]byte, error) {
	data, err := obj.MarshalJSON()
	if err != nil {
		return nil, err
	}
	if len(data) < 2 || data[0] != '{' || data[len(data)-1] != '}' {
		return nil, fmt.Errorf("expected JSON object, got %q", data)
	}

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	for _, f := range fields {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		val, _ := json.Marshal(f.value)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
