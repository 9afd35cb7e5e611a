// Package dto defines the data transfer objects returned by entitlement use
// cases to the HTTP layer.
package dto

import (
	"time"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
)

// PlanDTO represents a plan in API responses
type PlanDTO struct {
	ID        uint           `json:"id"`
	Key       string         `json:"key"`
	Name      string         `json:"name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FromPlan converts a plan entity to its DTO
func FromPlan(p *entitlement.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:        p.ID(),
		Key:       p.Key(),
		Name:      p.Name(),
		Metadata:  p.Metadata(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// FromPlans converts a slice of plan entities
func FromPlans(plans []*entitlement.Plan) []*PlanDTO {
	out := make([]*PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, FromPlan(p))
	}
	return out
}

// FeatureDTO represents a feature in API responses
type FeatureDTO struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromFeature converts a feature entity to its DTO
func FromFeature(f *entitlement.Feature) *FeatureDTO {
	if f == nil {
		return nil
	}
	return &FeatureDTO{
		Key:       f.Key(),
		Name:      f.Name(),
		CreatedAt: f.CreatedAt(),
		UpdatedAt: f.UpdatedAt(),
	}
}

// FromFeatures converts a slice of feature entities
func FromFeatures(features []*entitlement.Feature) []*FeatureDTO {
	out := make([]*FeatureDTO, 0, len(features))
	for _, f := range features {
		out = append(out, FromFeature(f))
	}
	return out
}

// PlanRuleDTO represents a plan-level rule in API responses
type PlanRuleDTO struct {
	PlanID      uint      `json:"plan_id"`
	FeatureKey  string    `json:"feature_key"`
	AccessLevel string    `json:"access_level"`
	LimitValue  int64     `json:"limit_value"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromPlanRule converts a plan rule entity to its DTO
func FromPlanRule(r *entitlement.PlanRule) *PlanRuleDTO {
	if r == nil {
		return nil
	}
	return &PlanRuleDTO{
		PlanID:      r.PlanID(),
		FeatureKey:  r.FeatureKey(),
		AccessLevel: r.AccessLevel().String(),
		LimitValue:  r.LimitValue(),
		UpdatedAt:   r.UpdatedAt(),
	}
}

// FromPlanRules converts a slice of plan rule entities
func FromPlanRules(rules []*entitlement.PlanRule) []*PlanRuleDTO {
	out := make([]*PlanRuleDTO, 0, len(rules))
	for _, r := range rules {
		out = append(out, FromPlanRule(r))
	}
	return out
}

// OverrideDTO represents a per-user override in API responses
type OverrideDTO struct {
	UserID      uint      `json:"user_id"`
	FeatureKey  string    `json:"feature_key"`
	AccessLevel string    `json:"access_level"`
	LimitValue  int64     `json:"limit_value"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromOverride converts an override entity to its DTO
func FromOverride(o *entitlement.Override) *OverrideDTO {
	if o == nil {
		return nil
	}
	return &OverrideDTO{
		UserID:      o.UserID(),
		FeatureKey:  o.FeatureKey(),
		AccessLevel: o.AccessLevel().String(),
		LimitValue:  o.LimitValue(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

// FromOverrides converts a slice of override entities
func FromOverrides(overrides []*entitlement.Override) []*OverrideDTO {
	out := make([]*OverrideDTO, 0, len(overrides))
	for _, o := range overrides {
		out = append(out, FromOverride(o))
	}
	return out
}

// EffectiveRuleDTO is the resolved rule inside a usage report row
type EffectiveRuleDTO struct {
	AccessLevel string `json:"access_level"`
	LimitValue  int64  `json:"limit_value"`
	Source      string `json:"source"`
}

// UsageReportRowDTO is one row of the admin usage report
type UsageReportRowDTO struct {
	UserID     uint              `json:"user_id"`
	PlanID     uint              `json:"plan_id,omitempty"`
	FeatureKey string            `json:"feature_key"`
	Used       int64             `json:"used"`
	Effective  *EffectiveRuleDTO `json:"effective,omitempty"`
	Unlimited  bool              `json:"unlimited"`
	Remaining  *int64            `json:"remaining,omitempty"`
}
