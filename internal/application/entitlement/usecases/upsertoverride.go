package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UpsertOverrideCommand represents the command to grant or adjust a per-user
// exception for a feature
type UpsertOverrideCommand struct {
	UserID      uint
	FeatureKey  string
	AccessLevel string
	LimitValue  int64
}

// UpsertOverrideUseCase handles override upserts. Overrides take effect
// immediately: they are never cached, so the next CheckAccess sees them.
type UpsertOverrideUseCase struct {
	featureRepo  entitlement.FeatureRepository
	overrideRepo entitlement.OverrideRepository
	logger       logger.Interface
}

// NewUpsertOverrideUseCase creates a new UpsertOverrideUseCase instance
func NewUpsertOverrideUseCase(
	featureRepo entitlement.FeatureRepository,
	overrideRepo entitlement.OverrideRepository,
	logger logger.Interface,
) *UpsertOverrideUseCase {
	return &UpsertOverrideUseCase{
		featureRepo:  featureRepo,
		overrideRepo: overrideRepo,
		logger:       logger,
	}
}

// Execute validates the referenced feature, then upserts the override.
func (uc *UpsertOverrideUseCase) Execute(ctx context.Context, cmd UpsertOverrideCommand) (*dto.OverrideDTO, error) {
	if cmd.UserID == 0 {
		return nil, apperrors.NewValidationError("user_id is required")
	}
	if cmd.FeatureKey == "" {
		return nil, apperrors.NewValidationError("feature_key is required")
	}

	feature, err := uc.featureRepo.GetByKey(ctx, cmd.FeatureKey)
	if err != nil {
		uc.logger.Errorw("failed to get feature", "feature_key", cmd.FeatureKey, "error", err)
		return nil, err
	}
	if feature == nil {
		return nil, apperrors.NewNotFoundError("feature not found", cmd.FeatureKey)
	}

	override, err := entitlement.NewOverride(cmd.UserID, cmd.FeatureKey, entitlement.AccessLevel(cmd.AccessLevel), cmd.LimitValue)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid override", err.Error())
	}

	if err := uc.overrideRepo.Upsert(ctx, override); err != nil {
		uc.logger.Errorw("failed to upsert override",
			"user_id", cmd.UserID,
			"feature_key", cmd.FeatureKey,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("override upserted",
		"user_id", cmd.UserID,
		"feature_key", cmd.FeatureKey,
		"access_level", cmd.AccessLevel,
		"limit_value", cmd.LimitValue,
	)
	return dto.FromOverride(override), nil
}
