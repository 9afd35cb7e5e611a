package mappers

import (
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
)

// PlanRuleMapper handles the conversion between plan rule entities and models
type PlanRuleMapper interface {
	ToEntity(model *models.PlanRuleModel) (*entitlement.PlanRule, error)
	ToModel(entity *entitlement.PlanRule) *models.PlanRuleModel
	ToEntities(models []*models.PlanRuleModel) ([]*entitlement.PlanRule, error)
}

type planRuleMapper struct{}

// NewPlanRuleMapper creates a new plan rule mapper
func NewPlanRuleMapper() PlanRuleMapper {
	return &planRuleMapper{}
}

func (m *planRuleMapper) ToEntity(model *models.PlanRuleModel) (*entitlement.PlanRule, error) {
	if model == nil {
		return nil, nil
	}
	return entitlement.ReconstructPlanRule(
		model.ID,
		model.PlanID,
		model.FeatureKey,
		entitlement.AccessLevel(model.AccessLevel),
		model.LimitValue,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *planRuleMapper) ToModel(entity *entitlement.PlanRule) *models.PlanRuleModel {
	if entity == nil {
		return nil
	}
	return &models.PlanRuleModel{
		ID:          entity.ID(),
		PlanID:      entity.PlanID(),
		FeatureKey:  entity.FeatureKey(),
		AccessLevel: entity.AccessLevel().String(),
		LimitValue:  entity.LimitValue(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *planRuleMapper) ToEntities(ruleModels []*models.PlanRuleModel) ([]*entitlement.PlanRule, error) {
	entities := make([]*entitlement.PlanRule, 0, len(ruleModels))
	for _, model := range ruleModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// OverrideMapper handles the conversion between override entities and models
type OverrideMapper interface {
	ToEntity(model *models.OverrideModel) (*entitlement.Override, error)
	ToModel(entity *entitlement.Override) *models.OverrideModel
	ToEntities(models []*models.OverrideModel) ([]*entitlement.Override, error)
}

type overrideMapper struct{}

// NewOverrideMapper creates a new override mapper
func NewOverrideMapper() OverrideMapper {
	return &overrideMapper{}
}

func (m *overrideMapper) ToEntity(model *models.OverrideModel) (*entitlement.Override, error) {
	if model == nil {
		return nil, nil
	}
	return entitlement.ReconstructOverride(
		model.ID,
		model.UserID,
		model.FeatureKey,
		entitlement.AccessLevel(model.AccessLevel),
		model.LimitValue,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *overrideMapper) ToModel(entity *entitlement.Override) *models.OverrideModel {
	if entity == nil {
		return nil
	}
	return &models.OverrideModel{
		ID:          entity.ID(),
		UserID:      entity.UserID(),
		FeatureKey:  entity.FeatureKey(),
		AccessLevel: entity.AccessLevel().String(),
		LimitValue:  entity.LimitValue(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func (m *overrideMapper) ToEntities(overrideModels []*models.OverrideModel) ([]*entitlement.Override, error) {
	entities := make([]*entitlement.Override, 0, len(overrideModels))
	for _, model := range overrideModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
