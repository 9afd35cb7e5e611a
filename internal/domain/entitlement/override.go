package entitlement

import (
	"fmt"
	"time"
)

// Override is a per-user entitlement exception granted by an administrator.
// It takes precedence over the user's plan rule and exists only for users
// with an explicit exception; absence means "no override".
type Override struct {
	id          uint
	userID      uint
	featureKey  string
	accessLevel AccessLevel
	limitValue  int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewOverride creates a new per-user override
func NewOverride(userID uint, featureKey string, level AccessLevel, limit int64) (*Override, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if !ValidFeatureKey(featureKey) {
		return nil, fmt.Errorf("invalid feature key: %q", featureKey)
	}
	if err := validateRuleFields(level, limit); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Override{
		userID:      userID,
		featureKey:  featureKey,
		accessLevel: level,
		limitValue:  limit,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructOverride reconstructs an override from persistence
func ReconstructOverride(id, userID uint, featureKey string, level AccessLevel, limit int64, createdAt, updatedAt time.Time) (*Override, error) {
	if id == 0 {
		return nil, fmt.Errorf("override ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid access level: %s", level)
	}
	return &Override{
		id:          id,
		userID:      userID,
		featureKey:  featureKey,
		accessLevel: level,
		limitValue:  limit,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

// ID returns the override ID
func (o *Override) ID() uint { return o.id }

// UserID returns the user the exception applies to
func (o *Override) UserID() uint { return o.userID }

// FeatureKey returns the gated feature key
func (o *Override) FeatureKey() string { return o.featureKey }

// AccessLevel returns the configured access level
func (o *Override) AccessLevel() AccessLevel { return o.accessLevel }

// LimitValue returns the stored limit; only authoritative for AccessCount
func (o *Override) LimitValue() int64 { return o.limitValue }

// CreatedAt returns when the override was created
func (o *Override) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns when the override was last updated
func (o *Override) UpdatedAt() time.Time { return o.updatedAt }

// SetID sets the override ID (only for persistence layer use)
func (o *Override) SetID(id uint) error {
	if o.id != 0 {
		return fmt.Errorf("override ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("override ID cannot be zero")
	}
	o.id = id
	return nil
}

// SetRule overwrites the access level and limit in place (upsert semantics).
func (o *Override) SetRule(level AccessLevel, limit int64) error {
	if err := validateRuleFields(level, limit); err != nil {
		return err
	}
	o.accessLevel = level
	o.limitValue = limit
	o.updatedAt = time.Now().UTC()
	return nil
}

// Effective converts the override to an effective rule with override precedence.
func (o *Override) Effective() EffectiveRule {
	return NewEffectiveRule(o.accessLevel, o.limitValue, SourceOverride)
}
