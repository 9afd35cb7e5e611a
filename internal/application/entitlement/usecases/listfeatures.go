package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// ListFeaturesUseCase lists all features
type ListFeaturesUseCase struct {
	featureRepo entitlement.FeatureRepository
	logger      logger.Interface
}

// NewListFeaturesUseCase creates a new ListFeaturesUseCase instance
func NewListFeaturesUseCase(featureRepo entitlement.FeatureRepository, logger logger.Interface) *ListFeaturesUseCase {
	return &ListFeaturesUseCase{featureRepo: featureRepo, logger: logger}
}

// Execute returns all features
func (uc *ListFeaturesUseCase) Execute(ctx context.Context) ([]*dto.FeatureDTO, error) {
	features, err := uc.featureRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list features", "error", err)
		return nil, err
	}
	return dto.FromFeatures(features), nil
}
