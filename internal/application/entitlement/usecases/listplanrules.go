package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// ListPlanRulesUseCase lists all plan rules
type ListPlanRulesUseCase struct {
	ruleRepo entitlement.PlanRuleRepository
	logger   logger.Interface
}

// NewListPlanRulesUseCase creates a new ListPlanRulesUseCase instance
func NewListPlanRulesUseCase(ruleRepo entitlement.PlanRuleRepository, logger logger.Interface) *ListPlanRulesUseCase {
	return &ListPlanRulesUseCase{ruleRepo: ruleRepo, logger: logger}
}

// Execute returns all plan rules
func (uc *ListPlanRulesUseCase) Execute(ctx context.Context) ([]*dto.PlanRuleDTO, error) {
	rules, err := uc.ruleRepo.List(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plan rules", "error", err)
		return nil, err
	}
	return dto.FromPlanRules(rules), nil
}
