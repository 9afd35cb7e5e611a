package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UpdateFeatureCommand represents the command to update a feature's display
// name. The key is immutable once referenced by a rule, so only the name can
// change here.
type UpdateFeatureCommand struct {
	Key  string
	Name string
}

// UpdateFeatureUseCase handles feature updates
type UpdateFeatureUseCase struct {
	featureRepo entitlement.FeatureRepository
	logger      logger.Interface
}

// NewUpdateFeatureUseCase creates a new UpdateFeatureUseCase instance
func NewUpdateFeatureUseCase(featureRepo entitlement.FeatureRepository, logger logger.Interface) *UpdateFeatureUseCase {
	return &UpdateFeatureUseCase{featureRepo: featureRepo, logger: logger}
}

// Execute applies the update and returns the mutated feature
func (uc *UpdateFeatureUseCase) Execute(ctx context.Context, cmd UpdateFeatureCommand) (*dto.FeatureDTO, error) {
	feature, err := uc.featureRepo.GetByKey(ctx, cmd.Key)
	if err != nil {
		uc.logger.Errorw("failed to get feature", "key", cmd.Key, "error", err)
		return nil, err
	}
	if feature == nil {
		return nil, apperrors.NewNotFoundError("feature not found", cmd.Key)
	}

	if err := feature.Rename(cmd.Name); err != nil {
		return nil, apperrors.NewValidationError("invalid feature name", err.Error())
	}

	if err := uc.featureRepo.Update(ctx, feature); err != nil {
		uc.logger.Errorw("failed to update feature", "key", cmd.Key, "error", err)
		return nil, err
	}

	return dto.FromFeature(feature), nil
}
