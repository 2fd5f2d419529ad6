// Package modelsync pulls model and workflow definitions from the provider
// and mirrors them into the local catalog.
package modelsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fluxuro/uro-client-template-api/internal/provider"
	"github.com/fluxuro/uro-client-template-api/pkg/models"
	"github.com/google/uuid"
)

// Store is the catalog subset the syncer writes to.
type Store interface {
	UpsertModel(ctx context.Context, m *models.Model) (uuid.UUID, error)
	ReplaceParameterSchemas(ctx context.Context, modelID uuid.UUID, schemas []*models.ParameterSchema) error
	SetModelCostToCustomer(ctx context.Context, id uuid.UUID, cost float64) error
	SetModelCostToClient(ctx context.Context, id uuid.UUID, cost float64) error
}

// Definitions is the provider read surface the syncer pulls from.
type Definitions interface {
	GetModelByID(ctx context.Context, id string) (*provider.ModelDefinition, error)
	GetWorkflowByID(ctx context.Context, id string) (*provider.WorkflowDefinition, error)
}

// Syncer mirrors provider definitions into the catalog. A sync replaces the
// model's parameter schemas wholesale so removed parameters disappear.
type Syncer struct {
	store   Store
	gateway Definitions
}

func NewSyncer(s Store, gw Definitions) *Syncer {
	return &Syncer{store: s, gateway: gw}
}

// SyncModel imports or refreshes one provider model by its provider-side ID.
func (s *Syncer) SyncModel(ctx context.Context, providerModelID string) (uuid.UUID, error) {
	def, err := s.gateway.GetModelByID(ctx, providerModelID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("fetching model definition %s: %w", providerModelID, err)
	}

	model := &models.Model{
		Name:            def.Name,
		Description:     def.Description,
		ModelType:       def.ModelType,
		ProviderType:    models.ProviderTypeModel,
		ProviderModelID: def.ModelID,
		IsActive:        true,
	}
	return s.upsert(ctx, model, def.Parameters)
}

// SyncWorkflow imports or refreshes one provider workflow.
func (s *Syncer) SyncWorkflow(ctx context.Context, workflowDefinitionID string) (uuid.UUID, error) {
	def, err := s.gateway.GetWorkflowByID(ctx, workflowDefinitionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("fetching workflow definition %s: %w", workflowDefinitionID, err)
	}

	model := &models.Model{
		Name:            def.Name,
		Description:     def.Description,
		ModelType:       "workflow",
		ProviderType:    models.ProviderTypeWorkflow,
		ProviderModelID: def.WorkflowDefinitionID,
		IsActive:        true,
	}
	return s.upsert(ctx, model, def.Parameters)
}

// SetCostToCustomer updates what a run of the model charges the customer.
func (s *Syncer) SetCostToCustomer(ctx context.Context, id uuid.UUID, cost float64) error {
	return s.store.SetModelCostToCustomer(ctx, id, cost)
}

// SetCostToClient updates what the provider charges us per run.
func (s *Syncer) SetCostToClient(ctx context.Context, id uuid.UUID, cost float64) error {
	return s.store.SetModelCostToClient(ctx, id, cost)
}

func (s *Syncer) upsert(ctx context.Context, model *models.Model, params []provider.ParameterDefinition) (uuid.UUID, error) {
	modelID, err := s.store.UpsertModel(ctx, model)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upserting model %s: %w", model.ProviderModelID, err)
	}

	schemas := make([]*models.ParameterSchema, 0, len(params))
	for i, p := range params {
		sort := i
		schemas = append(schemas, &models.ParameterSchema{
			ModelID:       modelID,
			Name:          p.Name,
			Title:         p.Title,
			Description:   p.Description,
			DataType:      p.DataType,
			Required:      bool(p.Required),
			IsPrivate:     bool(p.Private),
			DefaultValue:  p.DefaultValue,
			AllowedValues: p.AllowedValues,
			MinValue:      p.MinValue,
			MaxValue:      p.MaxValue,
			GroupTag:      p.GroupTag,
			SortOrder:     &sort,
		})
	}
	if err := s.store.ReplaceParameterSchemas(ctx, modelID, schemas); err != nil {
		return uuid.Nil, fmt.Errorf("replacing parameter schemas for %s: %w", modelID, err)
	}

	slog.Info("synced model definition",
		"model_id", modelID,
		"provider_model_id", model.ProviderModelID,
		"parameters", len(schemas),
	)
	return modelID, nil
}
