package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UpdatePlanCommand represents the command to update a plan. Nil fields are
// left untouched; the plan key is immutable.
type UpdatePlanCommand struct {
	PlanID   uint
	Name     *string
	Metadata *map[string]any
}

// UpdatePlanUseCase handles plan updates
type UpdatePlanUseCase struct {
	planRepo entitlement.PlanRepository
	logger   logger.Interface
}

// NewUpdatePlanUseCase creates a new UpdatePlanUseCase instance
func NewUpdatePlanUseCase(planRepo entitlement.PlanRepository, logger logger.Interface) *UpdatePlanUseCase {
	return &UpdatePlanUseCase{planRepo: planRepo, logger: logger}
}

// Execute applies the update and returns the mutated plan
func (uc *UpdatePlanUseCase) Execute(ctx context.Context, cmd UpdatePlanCommand) (*dto.PlanDTO, error) {
	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_id", cmd.PlanID, "error", err)
		return nil, err
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	if cmd.Name != nil {
		if err := plan.Rename(*cmd.Name); err != nil {
			return nil, apperrors.NewValidationError("invalid plan name", err.Error())
		}
	}
	if cmd.Metadata != nil {
		plan.SetMetadata(*cmd.Metadata)
	}

	if err := uc.planRepo.Update(ctx, plan); err != nil {
		uc.logger.Errorw("failed to update plan", "plan_id", cmd.PlanID, "error", err)
		return nil, err
	}

	return dto.FromPlan(plan), nil
}
