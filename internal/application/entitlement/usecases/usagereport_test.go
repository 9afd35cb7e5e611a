package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/domain/usage"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// --- fakes ---

type fakeUsageRepo struct {
	counts []usage.PairCount
}

func (f *fakeUsageRepo) Count(context.Context, uint, string) (int64, error) { return 0, nil }
func (f *fakeUsageRepo) RecordAndCheck(context.Context, uint, string, int64) (usage.RecordResult, error) {
	return usage.RecordResult{}, nil
}
func (f *fakeUsageRepo) Reset(context.Context, uint, string) error { return nil }
func (f *fakeUsageRepo) Aggregate(_ context.Context, filter usage.Filter) ([]usage.PairCount, error) {
	out := make([]usage.PairCount, 0, len(f.counts))
	for _, c := range f.counts {
		if filter.UserID != nil && c.UserID != *filter.UserID {
			continue
		}
		if filter.FeatureKey != nil && c.FeatureKey != *filter.FeatureKey {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

type fakeOverrideRepo struct {
	overrides []*entitlement.Override
}

func (f *fakeOverrideRepo) Upsert(_ context.Context, o *entitlement.Override) error {
	f.overrides = append(f.overrides, o)
	return nil
}

func (f *fakeOverrideRepo) GetByUserAndFeature(_ context.Context, userID uint, featureKey string) (*entitlement.Override, error) {
	for _, o := range f.overrides {
		if o.UserID() == userID && o.FeatureKey() == featureKey {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOverrideRepo) List(_ context.Context, filter entitlement.OverrideFilter) ([]*entitlement.Override, error) {
	out := make([]*entitlement.Override, 0, len(f.overrides))
	for _, o := range f.overrides {
		if filter.UserID != nil && o.UserID() != *filter.UserID {
			continue
		}
		if filter.FeatureKey != nil && o.FeatureKey() != *filter.FeatureKey {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOverrideRepo) Delete(context.Context, uint, string) error { return nil }
func (f *fakeOverrideRepo) AnyForFeature(context.Context, string) (bool, error) {
	return len(f.overrides) > 0, nil
}

type fakeRuleRepo struct {
	rules map[string]*entitlement.PlanRule
}

func rulePairKey(planID uint, featureKey string) string {
	return fmt.Sprintf("%d:%s", planID, featureKey)
}

func (f *fakeRuleRepo) Upsert(_ context.Context, r *entitlement.PlanRule) error {
	if f.rules == nil {
		f.rules = make(map[string]*entitlement.PlanRule)
	}
	f.rules[rulePairKey(r.PlanID(), r.FeatureKey())] = r
	return nil
}

func (f *fakeRuleRepo) GetByPlanAndFeature(_ context.Context, planID uint, featureKey string) (*entitlement.PlanRule, error) {
	return f.rules[rulePairKey(planID, featureKey)], nil
}

func (f *fakeRuleRepo) List(context.Context) ([]*entitlement.PlanRule, error) { return nil, nil }
func (f *fakeRuleRepo) Delete(context.Context, uint, string) error            { return nil }
func (f *fakeRuleRepo) AnyForFeature(context.Context, string) (bool, error)   { return false, nil }

type fakePlanAssignRepo struct {
	plans map[uint]uint
}

func (f *fakePlanAssignRepo) PlanIDByUser(_ context.Context, userID uint) (uint, error) {
	planID, ok := f.plans[userID]
	if !ok {
		return 0, entitlement.ErrPlanNotFound
	}
	return planID, nil
}

func (f *fakePlanAssignRepo) PlanIDsByUsers(_ context.Context, userIDs []uint) (map[uint]uint, error) {
	out := make(map[uint]uint, len(userIDs))
	for _, id := range userIDs {
		if planID, ok := f.plans[id]; ok {
			out[id] = planID
		}
	}
	return out, nil
}

// --- tests ---

func TestUsageReport_JoinsPlanRuleAndComputesRemaining(t *testing.T) {
	rule, err := entitlement.NewPlanRule(10, "export", entitlement.AccessCount, 5)
	require.NoError(t, err)

	uc := NewUsageReportUseCase(
		&fakeUsageRepo{counts: []usage.PairCount{{UserID: 1, FeatureKey: "export", Count: 3}}},
		&fakeOverrideRepo{},
		&fakeRuleRepo{rules: map[string]*entitlement.PlanRule{rulePairKey(10, "export"): rule}},
		&fakePlanAssignRepo{plans: map[uint]uint{1: 10}},
		logger.NewLogger(),
	)

	rows, err := uc.Execute(context.Background(), UsageReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, uint(1), row.UserID)
	assert.Equal(t, uint(10), row.PlanID)
	assert.Equal(t, int64(3), row.Used)
	require.NotNil(t, row.Effective)
	assert.Equal(t, "count", row.Effective.AccessLevel)
	assert.Equal(t, "plan", row.Effective.Source)
	require.NotNil(t, row.Remaining)
	assert.Equal(t, int64(2), *row.Remaining)
}

func TestUsageReport_OverrideWinsAndPairWithoutUsageAppears(t *testing.T) {
	rule, err := entitlement.NewPlanRule(10, "export", entitlement.AccessCount, 5)
	require.NoError(t, err)
	override, err := entitlement.NewOverride(1, "export", entitlement.AccessUnlimited, 0)
	require.NoError(t, err)
	bonus, err := entitlement.NewOverride(2, "matching-engine", entitlement.AccessCount, 3)
	require.NoError(t, err)

	uc := NewUsageReportUseCase(
		&fakeUsageRepo{counts: []usage.PairCount{{UserID: 1, FeatureKey: "export", Count: 7}}},
		&fakeOverrideRepo{overrides: []*entitlement.Override{override, bonus}},
		&fakeRuleRepo{rules: map[string]*entitlement.PlanRule{rulePairKey(10, "export"): rule}},
		&fakePlanAssignRepo{plans: map[uint]uint{1: 10, 2: 10}},
		logger.NewLogger(),
	)

	rows, err := uc.Execute(context.Background(), UsageReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Override wins over the plan rule for user 1
	first := rows[0]
	assert.Equal(t, uint(1), first.UserID)
	require.NotNil(t, first.Effective)
	assert.Equal(t, "override", first.Effective.Source)
	assert.True(t, first.Unlimited)
	assert.Nil(t, first.Remaining)

	// User 2 has an override but no usage; the pair still appears
	second := rows[1]
	assert.Equal(t, uint(2), second.UserID)
	assert.Equal(t, "matching-engine", second.FeatureKey)
	assert.Equal(t, int64(0), second.Used)
	require.NotNil(t, second.Remaining)
	assert.Equal(t, int64(3), *second.Remaining)
}

func TestUsageReport_NotConfiguredPairHasNoEffectiveRule(t *testing.T) {
	uc := NewUsageReportUseCase(
		&fakeUsageRepo{counts: []usage.PairCount{{UserID: 1, FeatureKey: "export", Count: 2}}},
		&fakeOverrideRepo{},
		&fakeRuleRepo{},
		&fakePlanAssignRepo{plans: map[uint]uint{1: 10}},
		logger.NewLogger(),
	)

	rows, err := uc.Execute(context.Background(), UsageReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Nil(t, rows[0].Effective)
	assert.Nil(t, rows[0].Remaining)
	assert.Equal(t, int64(2), rows[0].Used)
}

func TestUsageReport_RemainingClampedToZero(t *testing.T) {
	rule, err := entitlement.NewPlanRule(10, "export", entitlement.AccessCount, 5)
	require.NoError(t, err)

	uc := NewUsageReportUseCase(
		&fakeUsageRepo{counts: []usage.PairCount{{UserID: 1, FeatureKey: "export", Count: 9}}},
		&fakeOverrideRepo{},
		&fakeRuleRepo{rules: map[string]*entitlement.PlanRule{rulePairKey(10, "export"): rule}},
		&fakePlanAssignRepo{plans: map[uint]uint{1: 10}},
		logger.NewLogger(),
	)

	rows, err := uc.Execute(context.Background(), UsageReportQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Remaining)
	assert.Equal(t, int64(0), *rows[0].Remaining)
}

func TestUsageReport_FilterByUser(t *testing.T) {
	uc := NewUsageReportUseCase(
		&fakeUsageRepo{counts: []usage.PairCount{
			{UserID: 1, FeatureKey: "export", Count: 1},
			{UserID: 2, FeatureKey: "export", Count: 2},
		}},
		&fakeOverrideRepo{},
		&fakeRuleRepo{},
		&fakePlanAssignRepo{plans: map[uint]uint{1: 10, 2: 10}},
		logger.NewLogger(),
	)

	userID := uint(2)
	rows, err := uc.Execute(context.Background(), UsageReportQuery{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(2), rows[0].UserID)
}
