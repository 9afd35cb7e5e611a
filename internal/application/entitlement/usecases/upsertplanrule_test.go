package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

type fakePlanRepo struct {
	plans map[uint]*entitlement.Plan
}

func (f *fakePlanRepo) Create(context.Context, *entitlement.Plan) error { return nil }
func (f *fakePlanRepo) Update(context.Context, *entitlement.Plan) error { return nil }
func (f *fakePlanRepo) GetByID(_ context.Context, id uint) (*entitlement.Plan, error) {
	return f.plans[id], nil
}
func (f *fakePlanRepo) GetByKey(context.Context, string) (*entitlement.Plan, error) {
	return nil, nil
}
func (f *fakePlanRepo) List(context.Context) ([]*entitlement.Plan, error) { return nil, nil }

type fakeFeatureRepo struct {
	features map[string]*entitlement.Feature
}

func (f *fakeFeatureRepo) Create(context.Context, *entitlement.Feature) error { return nil }
func (f *fakeFeatureRepo) Update(context.Context, *entitlement.Feature) error { return nil }
func (f *fakeFeatureRepo) GetByKey(_ context.Context, key string) (*entitlement.Feature, error) {
	return f.features[key], nil
}
func (f *fakeFeatureRepo) List(context.Context) ([]*entitlement.Feature, error) { return nil, nil }

func newUpsertFixture(t *testing.T) (*UpsertPlanRuleUseCase, *fakeRuleRepo) {
	t.Helper()

	plan, err := entitlement.NewPlan("pro", "Pro")
	require.NoError(t, err)
	require.NoError(t, plan.SetID(10))

	feature, err := entitlement.NewFeature("export", "Data Export")
	require.NoError(t, err)

	rules := &fakeRuleRepo{}
	uc := NewUpsertPlanRuleUseCase(
		&fakePlanRepo{plans: map[uint]*entitlement.Plan{10: plan}},
		&fakeFeatureRepo{features: map[string]*entitlement.Feature{"export": feature}},
		rules,
		logger.NewLogger(),
	)
	return uc, rules
}

func TestUpsertPlanRule_Success(t *testing.T) {
	uc, rules := newUpsertFixture(t)

	result, err := uc.Execute(context.Background(), UpsertPlanRuleCommand{
		PlanID:      10,
		FeatureKey:  "export",
		AccessLevel: "count",
		LimitValue:  25,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "count", result.AccessLevel)
	assert.Equal(t, int64(25), result.LimitValue)

	stored := rules.rules[rulePairKey(10, "export")]
	require.NotNil(t, stored)
	assert.Equal(t, entitlement.AccessCount, stored.AccessLevel())
}

func TestUpsertPlanRule_UnknownPlan(t *testing.T) {
	uc, _ := newUpsertFixture(t)

	_, err := uc.Execute(context.Background(), UpsertPlanRuleCommand{
		PlanID:      99,
		FeatureKey:  "export",
		AccessLevel: "unlimited",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestUpsertPlanRule_UnknownFeature(t *testing.T) {
	uc, _ := newUpsertFixture(t)

	_, err := uc.Execute(context.Background(), UpsertPlanRuleCommand{
		PlanID:      10,
		FeatureKey:  "matching-engine",
		AccessLevel: "unlimited",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type)
}

func TestUpsertPlanRule_InvalidRule(t *testing.T) {
	uc, rules := newUpsertFixture(t)

	cases := []struct {
		name string
		cmd  UpsertPlanRuleCommand
	}{
		{"count without limit", UpsertPlanRuleCommand{PlanID: 10, FeatureKey: "export", AccessLevel: "count"}},
		{"unknown access level", UpsertPlanRuleCommand{PlanID: 10, FeatureKey: "export", AccessLevel: "sometimes"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tc.cmd)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		})
	}
	assert.Empty(t, rules.rules, "invalid commands must not reach the repository")
}
