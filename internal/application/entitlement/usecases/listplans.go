package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// ListPlansUseCase lists all plans
type ListPlansUseCase struct {
	planRepo entitlement.PlanRepository
	logger   logger.Interface
}

// NewListPlansUseCase creates a new ListPlansUseCase instance
func NewListPlansUseCase(planRepo entitlement.PlanRepository, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{planRepo: planRepo, logger: logger}
}

// Execute returns all plans
func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]*dto.PlanDTO, error) {
	plans, err := uc.planRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, err
	}
	return dto.FromPlans(plans), nil
}
