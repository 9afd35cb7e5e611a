package mappers

import (
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
)

// FeatureMapper handles the conversion between feature entities and models
type FeatureMapper interface {
	ToEntity(model *models.FeatureModel) (*entitlement.Feature, error)
	ToModel(entity *entitlement.Feature) *models.FeatureModel
	ToEntities(models []*models.FeatureModel) ([]*entitlement.Feature, error)
}

type featureMapper struct{}

// NewFeatureMapper creates a new feature mapper
func NewFeatureMapper() FeatureMapper {
	return &featureMapper{}
}

func (m *featureMapper) ToEntity(model *models.FeatureModel) (*entitlement.Feature, error) {
	if model == nil {
		return nil, nil
	}
	return entitlement.ReconstructFeature(model.ID, model.Key, model.Name, model.CreatedAt, model.UpdatedAt)
}

func (m *featureMapper) ToModel(entity *entitlement.Feature) *models.FeatureModel {
	if entity == nil {
		return nil
	}
	return &models.FeatureModel{
		ID:        entity.ID(),
		Key:       entity.Key(),
		Name:      entity.Name(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *featureMapper) ToEntities(featureModels []*models.FeatureModel) ([]*entitlement.Feature, error) {
	entities := make([]*entitlement.Feature, 0, len(featureModels))
	for _, model := range featureModels {
		entity, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}
