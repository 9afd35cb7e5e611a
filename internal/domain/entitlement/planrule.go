package entitlement

import (
	"fmt"
	"time"
)

// PlanRule is the default entitlement for a feature under a given plan.
// At most one rule exists per (plan, feature); the store enforces the
// composite uniqueness.
type PlanRule struct {
	id          uint
	planID      uint
	featureKey  string
	accessLevel AccessLevel
	limitValue  int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPlanRule creates a new plan rule
func NewPlanRule(planID uint, featureKey string, level AccessLevel, limit int64) (*PlanRule, error) {
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !ValidFeatureKey(featureKey) {
		return nil, fmt.Errorf("invalid feature key: %q", featureKey)
	}
	if err := validateRuleFields(level, limit); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &PlanRule{
		planID:      planID,
		featureKey:  featureKey,
		accessLevel: level,
		limitValue:  limit,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructPlanRule reconstructs a plan rule from persistence
func ReconstructPlanRule(id, planID uint, featureKey string, level AccessLevel, limit int64, createdAt, updatedAt time.Time) (*PlanRule, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan rule ID cannot be zero")
	}
	if planID == 0 {
		return nil, fmt.Errorf("plan ID is required")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid access level: %s", level)
	}
	return &PlanRule{
		id:          id,
		planID:      planID,
		featureKey:  featureKey,
		accessLevel: level,
		limitValue:  limit,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func validateRuleFields(level AccessLevel, limit int64) error {
	if !level.IsValid() {
		return fmt.Errorf("invalid access level: %s", level)
	}
	if level == AccessCount && limit <= 0 {
		return fmt.Errorf("limit value must be positive for count access")
	}
	return nil
}

// ID returns the rule ID
func (r *PlanRule) ID() uint { return r.id }

// PlanID returns the plan the rule belongs to
func (r *PlanRule) PlanID() uint { return r.planID }

// FeatureKey returns the gated feature key
func (r *PlanRule) FeatureKey() string { return r.featureKey }

// AccessLevel returns the configured access level
func (r *PlanRule) AccessLevel() AccessLevel { return r.accessLevel }

// LimitValue returns the stored limit; only authoritative for AccessCount
func (r *PlanRule) LimitValue() int64 { return r.limitValue }

// CreatedAt returns when the rule was created
func (r *PlanRule) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the rule was last updated
func (r *PlanRule) UpdatedAt() time.Time { return r.updatedAt }

// SetID sets the rule ID (only for persistence layer use)
func (r *PlanRule) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("plan rule ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan rule ID cannot be zero")
	}
	r.id = id
	return nil
}

// SetRule overwrites the access level and limit in place (upsert semantics).
func (r *PlanRule) SetRule(level AccessLevel, limit int64) error {
	if err := validateRuleFields(level, limit); err != nil {
		return err
	}
	r.accessLevel = level
	r.limitValue = limit
	r.updatedAt = time.Now().UTC()
	return nil
}

// Effective converts the rule to an effective rule with plan precedence.
func (r *PlanRule) Effective() EffectiveRule {
	return NewEffectiveRule(r.accessLevel, r.limitValue, SourcePlan)
}
