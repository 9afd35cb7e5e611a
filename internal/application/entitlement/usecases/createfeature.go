package usecases

import (
	"context"
	"errors"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// CreateFeatureCommand represents the command to create a feature
type CreateFeatureCommand struct {
	Key  string
	Name string
}

// CreateFeatureUseCase handles feature creation
type CreateFeatureUseCase struct {
	featureRepo entitlement.FeatureRepository
	logger      logger.Interface
}

// NewCreateFeatureUseCase creates a new CreateFeatureUseCase instance
func NewCreateFeatureUseCase(featureRepo entitlement.FeatureRepository, logger logger.Interface) *CreateFeatureUseCase {
	return &CreateFeatureUseCase{featureRepo: featureRepo, logger: logger}
}

// Execute creates the feature and returns it
func (uc *CreateFeatureUseCase) Execute(ctx context.Context, cmd CreateFeatureCommand) (*dto.FeatureDTO, error) {
	feature, err := entitlement.NewFeature(cmd.Key, cmd.Name)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid feature", err.Error())
	}

	if err := uc.featureRepo.Create(ctx, feature); err != nil {
		if errors.Is(err, entitlement.ErrDuplicateFeature) {
			return nil, apperrors.NewConflictError("feature key already exists", cmd.Key)
		}
		uc.logger.Errorw("failed to create feature", "key", cmd.Key, "error", err)
		return nil, err
	}

	uc.logger.Infow("feature created", "key", feature.Key())
	return dto.FromFeature(feature), nil
}
