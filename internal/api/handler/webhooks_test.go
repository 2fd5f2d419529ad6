package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fluxuro/uro-client-template-api/internal/jobrun"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock CallbackReconciler ---

type mockReconciler struct {
	modelJobID    uuid.UUID
	modelCb       *jobrun.ModelCallback
	workflowJobID uuid.UUID
	workflowCb    *jobrun.WorkflowCallback
}

func (m *mockReconciler) HandleModelCallback(_ context.Context, jobID uuid.UUID, cb jobrun.ModelCallback) {
	m.modelJobID = jobID
	m.modelCb = &cb
}

func (m *mockReconciler) HandleWorkflowCallback(_ context.Context, jobID uuid.UUID, cb jobrun.WorkflowCallback) {
	m.workflowJobID = jobID
	m.workflowCb = &cb
}

func webhookReq(path, jobID string, body []byte) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("jobID", jobID)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestModelWebhook_Success(t *testing.T) {
	rec := &mockReconciler{}
	h := NewModelWebhookHandler(rec)
	jobID := uuid.New()
	body := []byte(`{"success":true,"results":{"images":["https://cdn.example.com/a.png"]},"cost_to_client":1.5}`)

	w := httptest.NewRecorder()
	h(w, webhookReq("/webhooks/model/"+jobID.String(), jobID.String(), body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(body), w.Body.String())

	require.NotNil(t, rec.modelCb)
	assert.Equal(t, jobID, rec.modelJobID)
	assert.True(t, rec.modelCb.Success)
	assert.Equal(t, 1.5, rec.modelCb.CostToClient)
}

func TestModelWebhook_InvalidJobIDStillAcks(t *testing.T) {
	rec := &mockReconciler{}
	h := NewModelWebhookHandler(rec)
	body := []byte(`{"success":true}`)

	w := httptest.NewRecorder()
	h(w, webhookReq("/webhooks/model/not-a-uuid", "not-a-uuid", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, rec.modelCb)
}

func TestModelWebhook_MalformedBodyStillAcks(t *testing.T) {
	rec := &mockReconciler{}
	h := NewModelWebhookHandler(rec)
	jobID := uuid.New()

	w := httptest.NewRecorder()
	h(w, webhookReq("/webhooks/model/"+jobID.String(), jobID.String(), []byte("{broken")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, rec.modelCb)
}

func TestModelWebhook_EmptyBodyAcksWithObject(t *testing.T) {
	rec := &mockReconciler{}
	h := NewModelWebhookHandler(rec)
	jobID := uuid.New()

	w := httptest.NewRecorder()
	h(w, webhookReq("/webhooks/model/"+jobID.String(), jobID.String(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "{}", w.Body.String())
}

func TestWorkflowWebhook_CarriesRawBody(t *testing.T) {
	rec := &mockReconciler{}
	h := NewWorkflowWebhookHandler(rec)
	jobID := uuid.New()
	body := []byte(`{"status":"errored","reason":"node crashed","cost_to_client":0.2}`)

	w := httptest.NewRecorder()
	h(w, webhookReq("/webhooks/workflow/"+jobID.String(), jobID.String(), body))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, rec.workflowCb)
	assert.Equal(t, jobID, rec.workflowJobID)
	assert.Equal(t, "errored", rec.workflowCb.Status)
	assert.JSONEq(t, string(body), string(rec.workflowCb.Raw))
}

func TestWorkflowWebhook_Completed(t *testing.T) {
	rec := &mockReconciler{}
	h := NewWorkflowWebhookHandler(rec)
	jobID := uuid.New()
	body := []byte(`{"status":"completed","results":{"results":{"video":"https://cdn.example.com/v.mp4"}},"cost_to_client":2}`)

	w := httptest.NewRecorder()
	h(w, webhookReq("/webhooks/workflow/"+jobID.String(), jobID.String(), body))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, rec.workflowCb)
	assert.Equal(t, "completed", rec.workflowCb.Status)
	assert.Equal(t, float64(2), rec.workflowCb.CostToClient)
}
