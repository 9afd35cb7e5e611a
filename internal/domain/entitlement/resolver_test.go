package entitlement

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeOverrideRepo struct {
	overrides map[string]*Override
	err       error
}

func newFakeOverrideRepo() *fakeOverrideRepo {
	return &fakeOverrideRepo{overrides: make(map[string]*Override)}
}

func overrideKey(userID uint, featureKey string) string {
	return fmt.Sprintf("%d:%s", userID, featureKey)
}

func (f *fakeOverrideRepo) Upsert(_ context.Context, o *Override) error {
	f.overrides[overrideKey(o.UserID(), o.FeatureKey())] = o
	return nil
}

func (f *fakeOverrideRepo) GetByUserAndFeature(_ context.Context, userID uint, featureKey string) (*Override, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.overrides[overrideKey(userID, featureKey)], nil
}

func (f *fakeOverrideRepo) List(_ context.Context, _ OverrideFilter) ([]*Override, error) {
	out := make([]*Override, 0, len(f.overrides))
	for _, o := range f.overrides {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOverrideRepo) Delete(_ context.Context, userID uint, featureKey string) error {
	key := overrideKey(userID, featureKey)
	if _, ok := f.overrides[key]; !ok {
		return ErrOverrideNotFound
	}
	delete(f.overrides, key)
	return nil
}

func (f *fakeOverrideRepo) AnyForFeature(_ context.Context, featureKey string) (bool, error) {
	for _, o := range f.overrides {
		if o.FeatureKey() == featureKey {
			return true, nil
		}
	}
	return false, nil
}

type fakePlanRuleRepo struct {
	rules map[string]*PlanRule
	err   error
}

func newFakePlanRuleRepo() *fakePlanRuleRepo {
	return &fakePlanRuleRepo{rules: make(map[string]*PlanRule)}
}

func ruleKey(planID uint, featureKey string) string {
	return fmt.Sprintf("%d:%s", planID, featureKey)
}

func (f *fakePlanRuleRepo) Upsert(_ context.Context, r *PlanRule) error {
	f.rules[ruleKey(r.PlanID(), r.FeatureKey())] = r
	return nil
}

func (f *fakePlanRuleRepo) GetByPlanAndFeature(_ context.Context, planID uint, featureKey string) (*PlanRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules[ruleKey(planID, featureKey)], nil
}

func (f *fakePlanRuleRepo) List(_ context.Context) ([]*PlanRule, error) {
	out := make([]*PlanRule, 0, len(f.rules))
	for _, r := range f.rules {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakePlanRuleRepo) Delete(_ context.Context, planID uint, featureKey string) error {
	key := ruleKey(planID, featureKey)
	if _, ok := f.rules[key]; !ok {
		return ErrPlanRuleNotFound
	}
	delete(f.rules, key)
	return nil
}

func (f *fakePlanRuleRepo) AnyForFeature(_ context.Context, featureKey string) (bool, error) {
	for _, r := range f.rules {
		if r.FeatureKey() == featureKey {
			return true, nil
		}
	}
	return false, nil
}

// --- helpers ---

func mustPlanRule(t *testing.T, planID uint, featureKey string, level AccessLevel, limit int64) *PlanRule {
	t.Helper()
	rule, err := NewPlanRule(planID, featureKey, level, limit)
	require.NoError(t, err)
	return rule
}

func mustOverride(t *testing.T, userID uint, featureKey string, level AccessLevel, limit int64) *Override {
	t.Helper()
	o, err := NewOverride(userID, featureKey, level, limit)
	require.NoError(t, err)
	return o
}

// --- tests ---

func TestResolver_PlanRuleApplies(t *testing.T) {
	overrides := newFakeOverrideRepo()
	rules := newFakePlanRuleRepo()
	rules.rules[ruleKey(2, "matching-engine")] = mustPlanRule(t, 2, "matching-engine", AccessCount, 10)

	resolver := NewResolver(overrides, rules)
	rule, err := resolver.Resolve(context.Background(), Subject{UserID: 1, PlanID: 2}, "matching-engine")
	require.NoError(t, err)

	assert.Equal(t, AccessCount, rule.AccessLevel())
	assert.Equal(t, int64(10), rule.Limit())
	assert.Equal(t, SourcePlan, rule.Source())
}

func TestResolver_OverrideTakesPrecedence(t *testing.T) {
	overrides := newFakeOverrideRepo()
	rules := newFakePlanRuleRepo()
	rules.rules[ruleKey(2, "matching-engine")] = mustPlanRule(t, 2, "matching-engine", AccessCount, 10)
	overrides.overrides[overrideKey(1, "matching-engine")] = mustOverride(t, 1, "matching-engine", AccessUnlimited, 0)

	resolver := NewResolver(overrides, rules)
	rule, err := resolver.Resolve(context.Background(), Subject{UserID: 1, PlanID: 2}, "matching-engine")
	require.NoError(t, err)

	assert.Equal(t, AccessUnlimited, rule.AccessLevel())
	assert.Equal(t, SourceOverride, rule.Source())
}

func TestResolver_OverrideVerbatimEvenWhenStricter(t *testing.T) {
	overrides := newFakeOverrideRepo()
	rules := newFakePlanRuleRepo()
	rules.rules[ruleKey(2, "export")] = mustPlanRule(t, 2, "export", AccessUnlimited, 0)
	overrides.overrides[overrideKey(1, "export")] = mustOverride(t, 1, "export", AccessBlocked, 0)

	resolver := NewResolver(overrides, rules)
	rule, err := resolver.Resolve(context.Background(), Subject{UserID: 1, PlanID: 2}, "export")
	require.NoError(t, err)

	assert.True(t, rule.IsBlocked())
	assert.Equal(t, SourceOverride, rule.Source())
}

func TestResolver_OverrideRemovalRevertsToPlanRule(t *testing.T) {
	ctx := context.Background()
	overrides := newFakeOverrideRepo()
	rules := newFakePlanRuleRepo()
	rules.rules[ruleKey(2, "matching-engine")] = mustPlanRule(t, 2, "matching-engine", AccessCount, 5)
	overrides.overrides[overrideKey(1, "matching-engine")] = mustOverride(t, 1, "matching-engine", AccessUnlimited, 0)

	resolver := NewResolver(overrides, rules)
	subject := Subject{UserID: 1, PlanID: 2}

	rule, err := resolver.Resolve(ctx, subject, "matching-engine")
	require.NoError(t, err)
	assert.Equal(t, SourceOverride, rule.Source())

	require.NoError(t, overrides.Delete(ctx, 1, "matching-engine"))

	rule, err = resolver.Resolve(ctx, subject, "matching-engine")
	require.NoError(t, err)
	assert.Equal(t, SourcePlan, rule.Source())
	assert.Equal(t, int64(5), rule.Limit())
}

func TestResolver_NotConfigured(t *testing.T) {
	resolver := NewResolver(newFakeOverrideRepo(), newFakePlanRuleRepo())

	_, err := resolver.Resolve(context.Background(), Subject{UserID: 1, PlanID: 2}, "view-premium-content")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestResolver_SubjectValidation(t *testing.T) {
	resolver := NewResolver(newFakeOverrideRepo(), newFakePlanRuleRepo())

	_, err := resolver.Resolve(context.Background(), Subject{UserID: 1}, "export")
	assert.ErrorIs(t, err, ErrSubjectPlanRequired)

	_, err = resolver.Resolve(context.Background(), Subject{PlanID: 2}, "export")
	assert.Error(t, err)

	_, err = resolver.Resolve(context.Background(), Subject{UserID: 1, PlanID: 2}, "")
	assert.Error(t, err)
}

func TestResolver_StorageErrorIsNotADenial(t *testing.T) {
	overrides := newFakeOverrideRepo()
	overrides.err = fmt.Errorf("connection refused")

	resolver := NewResolver(overrides, newFakePlanRuleRepo())
	_, err := resolver.Resolve(context.Background(), Subject{UserID: 1, PlanID: 2}, "export")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}
