package usecases

import (
	"context"
	"sort"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/domain/usage"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UsageReportQuery narrows the usage report. Nil fields match everything.
type UsageReportQuery struct {
	UserID     *uint
	FeatureKey *string
}

// UsageReportUseCase builds the admin usage report: for every (user,
// feature) pair with recorded usage or an override, it joins the user's
// plan, the applicable plan rule and any override, and computes the
// effective rule and remaining quota. Pairs with neither usage nor an
// override are omitted (nothing to show).
type UsageReportUseCase struct {
	usageRepo    usage.Repository
	overrideRepo entitlement.OverrideRepository
	ruleRepo     entitlement.PlanRuleRepository
	planAssign   entitlement.PlanAssignmentRepository
	logger       logger.Interface
}

// NewUsageReportUseCase creates a new UsageReportUseCase instance
func NewUsageReportUseCase(
	usageRepo usage.Repository,
	overrideRepo entitlement.OverrideRepository,
	ruleRepo entitlement.PlanRuleRepository,
	planAssign entitlement.PlanAssignmentRepository,
	logger logger.Interface,
) *UsageReportUseCase {
	return &UsageReportUseCase{
		usageRepo:    usageRepo,
		overrideRepo: overrideRepo,
		ruleRepo:     ruleRepo,
		planAssign:   planAssign,
		logger:       logger,
	}
}

type reportPair struct {
	userID     uint
	featureKey string
}

// Execute assembles the report rows
func (uc *UsageReportUseCase) Execute(ctx context.Context, query UsageReportQuery) ([]*dto.UsageReportRowDTO, error) {
	counts, err := uc.usageRepo.Aggregate(ctx, usage.Filter{
		UserID:     query.UserID,
		FeatureKey: query.FeatureKey,
	})
	if err != nil {
		uc.logger.Errorw("failed to aggregate usage", "error", err)
		return nil, err
	}

	overrides, err := uc.overrideRepo.List(ctx, entitlement.OverrideFilter{
		UserID:     query.UserID,
		FeatureKey: query.FeatureKey,
	})
	if err != nil {
		uc.logger.Errorw("failed to list overrides", "error", err)
		return nil, err
	}

	used := make(map[reportPair]int64, len(counts))
	for _, c := range counts {
		used[reportPair{c.UserID, c.FeatureKey}] = c.Count
	}
	overrideByPair := make(map[reportPair]*entitlement.Override, len(overrides))
	for _, o := range overrides {
		overrideByPair[reportPair{o.UserID(), o.FeatureKey()}] = o
	}

	pairs := make([]reportPair, 0, len(used)+len(overrideByPair))
	seen := make(map[reportPair]struct{}, len(used)+len(overrideByPair))
	for p := range used {
		pairs = append(pairs, p)
		seen[p] = struct{}{}
	}
	for p := range overrideByPair {
		if _, ok := seen[p]; !ok {
			pairs = append(pairs, p)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].userID != pairs[j].userID {
			return pairs[i].userID < pairs[j].userID
		}
		return pairs[i].featureKey < pairs[j].featureKey
	})

	userIDs := make([]uint, 0, len(pairs))
	seenUsers := make(map[uint]struct{}, len(pairs))
	for _, p := range pairs {
		if _, ok := seenUsers[p.userID]; !ok {
			seenUsers[p.userID] = struct{}{}
			userIDs = append(userIDs, p.userID)
		}
	}
	planIDs, err := uc.planAssign.PlanIDsByUsers(ctx, userIDs)
	if err != nil {
		uc.logger.Errorw("failed to resolve plan assignments", "error", err)
		return nil, err
	}

	rows := make([]*dto.UsageReportRowDTO, 0, len(pairs))
	for _, p := range pairs {
		row := &dto.UsageReportRowDTO{
			UserID:     p.userID,
			PlanID:     planIDs[p.userID],
			FeatureKey: p.featureKey,
			Used:       used[p],
		}

		var effective *entitlement.EffectiveRule
		if o, ok := overrideByPair[p]; ok {
			e := o.Effective()
			effective = &e
		} else if planID, ok := planIDs[p.userID]; ok {
			rule, err := uc.ruleRepo.GetByPlanAndFeature(ctx, planID, p.featureKey)
			if err != nil {
				uc.logger.Errorw("failed to get plan rule",
					"plan_id", planID,
					"feature_key", p.featureKey,
					"error", err,
				)
				return nil, err
			}
			if rule != nil {
				e := rule.Effective()
				effective = &e
			}
		}

		if effective != nil {
			row.Effective = &dto.EffectiveRuleDTO{
				AccessLevel: effective.AccessLevel().String(),
				LimitValue:  effective.Limit(),
				Source:      effective.Source().String(),
			}
			row.Unlimited = effective.IsUnlimited()
			if effective.IsCounted() {
				remaining := effective.Limit() - row.Used
				if remaining < 0 {
					remaining = 0
				}
				row.Remaining = &remaining
			}
		}

		rows = append(rows, row)
	}

	return rows, nil
}
