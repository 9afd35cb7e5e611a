// Package usecases provides application-level use cases for entitlement
// administration: plans, features, plan rules, overrides and usage.
package usecases

import (
	"context"
	"errors"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// CreatePlanCommand represents the command to create a plan
type CreatePlanCommand struct {
	Key      string
	Name     string
	Metadata map[string]any
}

// CreatePlanUseCase handles plan creation
type CreatePlanUseCase struct {
	planRepo entitlement.PlanRepository
	logger   logger.Interface
}

// NewCreatePlanUseCase creates a new CreatePlanUseCase instance
func NewCreatePlanUseCase(planRepo entitlement.PlanRepository, logger logger.Interface) *CreatePlanUseCase {
	return &CreatePlanUseCase{planRepo: planRepo, logger: logger}
}

// Execute creates the plan and returns it
func (uc *CreatePlanUseCase) Execute(ctx context.Context, cmd CreatePlanCommand) (*dto.PlanDTO, error) {
	plan, err := entitlement.NewPlan(cmd.Key, cmd.Name)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid plan", err.Error())
	}
	if cmd.Metadata != nil {
		plan.SetMetadata(cmd.Metadata)
	}

	if err := uc.planRepo.Create(ctx, plan); err != nil {
		if errors.Is(err, entitlement.ErrDuplicatePlan) {
			return nil, apperrors.NewConflictError("plan key already exists", cmd.Key)
		}
		uc.logger.Errorw("failed to create plan", "key", cmd.Key, "error", err)
		return nil, err
	}

	uc.logger.Infow("plan created", "plan_id", plan.ID(), "key", plan.Key())
	return dto.FromPlan(plan), nil
}
