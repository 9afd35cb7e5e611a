// Package mappers converts between domain entities and persistence models.
package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
)

// PlanMapper handles the conversion between plan entities and models
type PlanMapper interface {
	ToEntity(model *models.PlanModel) (*entitlement.Plan, error)
	ToModel(entity *entitlement.Plan) (*models.PlanModel, error)
	ToEntities(models []*models.PlanModel) ([]*entitlement.Plan, error)
}

type planMapper struct{}

// NewPlanMapper creates a new plan mapper
func NewPlanMapper() PlanMapper {
	return &planMapper{}
}

func (m *planMapper) ToEntity(model *models.PlanModel) (*entitlement.Plan, error) {
	if model == nil {
		return nil, nil
	}

	var metadata map[string]any
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan metadata: %w", err)
		}
	}

	return entitlement.ReconstructPlan(model.ID, model.Key, model.Name, metadata, model.CreatedAt, model.UpdatedAt)
}

func (m *planMapper) ToModel(entity *entitlement.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadata datatypes.JSON
	if len(entity.Metadata()) > 0 {
		raw, err := json.Marshal(entity.Metadata())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal plan metadata: %w", err)
		}
		metadata = raw
	}

	return &models.PlanModel{
		ID:        entity.ID(),
		Key:       entity.Key(),
		Name:      entity.Name(),
		Metadata:  metadata,
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *planMapper) ToEntities(planModels []*models.PlanModel) ([]*entitlement.Plan, error) {
	entities := make([]*entitlement.Plan, 0, len(planModels))
	for _, model := range planModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
