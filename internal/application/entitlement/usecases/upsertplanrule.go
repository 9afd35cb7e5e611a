package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UpsertPlanRuleCommand represents the command to insert or overwrite the
// rule for a (plan, feature) composite key
type UpsertPlanRuleCommand struct {
	PlanID      uint
	FeatureKey  string
	AccessLevel string
	LimitValue  int64
}

// UpsertPlanRuleUseCase handles plan rule upserts
type UpsertPlanRuleUseCase struct {
	planRepo    entitlement.PlanRepository
	featureRepo entitlement.FeatureRepository
	ruleRepo    entitlement.PlanRuleRepository
	logger      logger.Interface
}

// NewUpsertPlanRuleUseCase creates a new UpsertPlanRuleUseCase instance
func NewUpsertPlanRuleUseCase(
	planRepo entitlement.PlanRepository,
	featureRepo entitlement.FeatureRepository,
	ruleRepo entitlement.PlanRuleRepository,
	logger logger.Interface,
) *UpsertPlanRuleUseCase {
	return &UpsertPlanRuleUseCase{
		planRepo:    planRepo,
		featureRepo: featureRepo,
		ruleRepo:    ruleRepo,
		logger:      logger,
	}
}

// Execute validates the referenced plan and feature, then upserts the rule.
func (uc *UpsertPlanRuleUseCase) Execute(ctx context.Context, cmd UpsertPlanRuleCommand) (*dto.PlanRuleDTO, error) {
	if cmd.PlanID == 0 {
		return nil, apperrors.NewValidationError("plan_id is required")
	}
	if cmd.FeatureKey == "" {
		return nil, apperrors.NewValidationError("feature_key is required")
	}

	plan, err := uc.planRepo.GetByID(ctx, cmd.PlanID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_id", cmd.PlanID, "error", err)
		return nil, err
	}
	if plan == nil {
		return nil, apperrors.NewNotFoundError("plan not found")
	}

	feature, err := uc.featureRepo.GetByKey(ctx, cmd.FeatureKey)
	if err != nil {
		uc.logger.Errorw("failed to get feature", "feature_key", cmd.FeatureKey, "error", err)
		return nil, err
	}
	if feature == nil {
		return nil, apperrors.NewNotFoundError("feature not found", cmd.FeatureKey)
	}

	rule, err := entitlement.NewPlanRule(cmd.PlanID, cmd.FeatureKey, entitlement.AccessLevel(cmd.AccessLevel), cmd.LimitValue)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid plan rule", err.Error())
	}

	if err := uc.ruleRepo.Upsert(ctx, rule); err != nil {
		uc.logger.Errorw("failed to upsert plan rule",
			"plan_id", cmd.PlanID,
			"feature_key", cmd.FeatureKey,
			"error", err,
		)
		return nil, err
	}

	uc.logger.Infow("plan rule upserted",
		"plan_id", cmd.PlanID,
		"feature_key", cmd.FeatureKey,
		"access_level", cmd.AccessLevel,
		"limit_value", cmd.LimitValue,
	)
	return dto.FromPlanRule(rule), nil
}
