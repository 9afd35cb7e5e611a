package entitlement

import (
	"context"
	"fmt"
)

// Subject is the caller identity the gate and resolver operate on. The plan
// ID is populated from the user's non-nullable plan assignment.
type Subject struct {
	UserID uint
	PlanID uint
}

// Validate performs basic sanity checks on the subject
func (s Subject) Validate() error {
	if s.UserID == 0 {
		return fmt.Errorf("subject user ID is required")
	}
	if s.PlanID == 0 {
		return ErrSubjectPlanRequired
	}
	return nil
}

// Resolver computes the effective access rule for a (subject, feature) pair
// by applying override-over-plan precedence. Resolution is side-effect-free
// and safe to call on every request; plan rule lookups may be served from a
// cache by the injected repository, override lookups never are.
type Resolver struct {
	overrides OverrideRepository
	planRules PlanRuleRepository
}

// NewResolver creates a new resolver
func NewResolver(overrides OverrideRepository, planRules PlanRuleRepository) *Resolver {
	return &Resolver{overrides: overrides, planRules: planRules}
}

// Resolve returns the effective rule for the subject and feature key.
// An override, when present, is returned verbatim and bypasses the plan.
// When neither an override nor a plan rule exists, ErrNotConfigured is
// returned so callers can distinguish missing configuration from an
// explicit block.
func (r *Resolver) Resolve(ctx context.Context, subject Subject, featureKey string) (EffectiveRule, error) {
	if err := subject.Validate(); err != nil {
		return EffectiveRule{}, err
	}
	if featureKey == "" {
		return EffectiveRule{}, fmt.Errorf("feature key is required")
	}

	override, err := r.overrides.GetByUserAndFeature(ctx, subject.UserID, featureKey)
	if err != nil {
		return EffectiveRule{}, fmt.Errorf("failed to look up override: %w", err)
	}
	if override != nil {
		return override.Effective(), nil
	}

	rule, err := r.planRules.GetByPlanAndFeature(ctx, subject.PlanID, featureKey)
	if err != nil {
		return EffectiveRule{}, fmt.Errorf("failed to look up plan rule: %w", err)
	}
	if rule != nil {
		return rule.Effective(), nil
	}

	return EffectiveRule{}, ErrNotConfigured
}
