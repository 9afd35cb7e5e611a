package usecases

import (
	"context"
	"errors"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// DeleteOverrideCommand represents the command to revoke a per-user exception
type DeleteOverrideCommand struct {
	UserID     uint
	FeatureKey string
}

// DeleteOverrideUseCase handles override deletion. After removal the user
// reverts to their plan rule (or to not-configured if none exists).
type DeleteOverrideUseCase struct {
	overrideRepo entitlement.OverrideRepository
	logger       logger.Interface
}

// NewDeleteOverrideUseCase creates a new DeleteOverrideUseCase instance
func NewDeleteOverrideUseCase(overrideRepo entitlement.OverrideRepository, logger logger.Interface) *DeleteOverrideUseCase {
	return &DeleteOverrideUseCase{overrideRepo: overrideRepo, logger: logger}
}

// Execute removes the override for the composite key
func (uc *DeleteOverrideUseCase) Execute(ctx context.Context, cmd DeleteOverrideCommand) error {
	if cmd.UserID == 0 {
		return apperrors.NewValidationError("user_id is required")
	}
	if cmd.FeatureKey == "" {
		return apperrors.NewValidationError("feature_key is required")
	}

	if err := uc.overrideRepo.Delete(ctx, cmd.UserID, cmd.FeatureKey); err != nil {
		if errors.Is(err, entitlement.ErrOverrideNotFound) {
			return apperrors.NewNotFoundError("override not found")
		}
		uc.logger.Errorw("failed to delete override",
			"user_id", cmd.UserID,
			"feature_key", cmd.FeatureKey,
			"error", err,
		)
		return err
	}

	uc.logger.Infow("override deleted", "user_id", cmd.UserID, "feature_key", cmd.FeatureKey)
	return nil
}
