package usecases

import (
	"context"
	"errors"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// DeletePlanRuleCommand represents the command to delete a plan rule
type DeletePlanRuleCommand struct {
	PlanID     uint
	FeatureKey string
}

// DeletePlanRuleUseCase handles plan rule deletion
type DeletePlanRuleUseCase struct {
	ruleRepo entitlement.PlanRuleRepository
	logger   logger.Interface
}

// NewDeletePlanRuleUseCase creates a new DeletePlanRuleUseCase instance
func NewDeletePlanRuleUseCase(ruleRepo entitlement.PlanRuleRepository, logger logger.Interface) *DeletePlanRuleUseCase {
	return &DeletePlanRuleUseCase{ruleRepo: ruleRepo, logger: logger}
}

// Execute removes the rule for the composite key
func (uc *DeletePlanRuleUseCase) Execute(ctx context.Context, cmd DeletePlanRuleCommand) error {
	if cmd.PlanID == 0 {
		return apperrors.NewValidationError("plan_id is required")
	}
	if cmd.FeatureKey == "" {
		return apperrors.NewValidationError("feature_key is required")
	}

	if err := uc.ruleRepo.Delete(ctx, cmd.PlanID, cmd.FeatureKey); err != nil {
		if errors.Is(err, entitlement.ErrPlanRuleNotFound) {
			return apperrors.NewNotFoundError("plan rule not found")
		}
		uc.logger.Errorw("failed to delete plan rule",
			"plan_id", cmd.PlanID,
			"feature_key", cmd.FeatureKey,
			"error", err,
		)
		return err
	}

	uc.logger.Infow("plan rule deleted", "plan_id", cmd.PlanID, "feature_key", cmd.FeatureKey)
	return nil
}
