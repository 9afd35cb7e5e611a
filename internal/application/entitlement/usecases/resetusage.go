package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/domain/usage"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// ResetUsageCommand represents the command to reset usage for a
// (user, feature) pair
type ResetUsageCommand struct {
	UserID     uint
	FeatureKey string
}

// ResetUsageUseCase handles manual usage resets. Resets are idempotent; a
// consume racing the reset may leave at most one event behind, which is
// accepted rather than coordinated away.
type ResetUsageUseCase struct {
	usageRepo usage.Repository
	logger    logger.Interface
}

// NewResetUsageUseCase creates a new ResetUsageUseCase instance
func NewResetUsageUseCase(usageRepo usage.Repository, logger logger.Interface) *ResetUsageUseCase {
	return &ResetUsageUseCase{usageRepo: usageRepo, logger: logger}
}

// Execute deletes all usage events for the pair
func (uc *ResetUsageUseCase) Execute(ctx context.Context, cmd ResetUsageCommand) error {
	if cmd.UserID == 0 {
		return apperrors.NewValidationError("user_id is required")
	}
	if cmd.FeatureKey == "" {
		return apperrors.NewValidationError("feature_key is required")
	}

	if err := uc.usageRepo.Reset(ctx, cmd.UserID, cmd.FeatureKey); err != nil {
		uc.logger.Errorw("failed to reset usage",
			"user_id", cmd.UserID,
			"feature_key", cmd.FeatureKey,
			"error", err,
		)
		return err
	}

	uc.logger.Infow("usage reset", "user_id", cmd.UserID, "feature_key", cmd.FeatureKey)
	return nil
}
