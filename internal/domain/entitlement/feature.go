package entitlement

import (
	"fmt"
	"regexp"
	"time"
)

const maxFeatureNameLen = 100

// featureKeyPattern restricts keys to stable lowercase kebab identifiers,
// e.g. "matching-engine", "view-premium-content".
var featureKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidFeatureKey reports whether key is a well-formed feature key.
func ValidFeatureKey(key string) bool {
	return key != "" && len(key) <= 64 && featureKeyPattern.MatchString(key)
}

// Feature represents a named capability subject to gating. The key is the
// stable identifier callers use; the name is display only.
type Feature struct {
	id        uint
	key       string
	name      string
	createdAt time.Time
	updatedAt time.Time
}

// NewFeature creates a new feature
func NewFeature(key, name string) (*Feature, error) {
	if !ValidFeatureKey(key) {
		return nil, fmt.Errorf("invalid feature key: %q", key)
	}
	if name == "" {
		return nil, fmt.Errorf("feature name is required")
	}
	if len(name) > maxFeatureNameLen {
		return nil, fmt.Errorf("feature name too long: max %d characters", maxFeatureNameLen)
	}

	now := time.Now().UTC()
	return &Feature{
		key:       key,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructFeature reconstructs a feature from persistence
func ReconstructFeature(id uint, key, name string, createdAt, updatedAt time.Time) (*Feature, error) {
	if id == 0 {
		return nil, fmt.Errorf("feature ID cannot be zero")
	}
	if key == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	if name == "" {
		return nil, fmt.Errorf("feature name is required")
	}
	return &Feature{
		id:        id,
		key:       key,
		name:      name,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the feature ID
func (f *Feature) ID() uint { return f.id }

// Key returns the stable feature key
func (f *Feature) Key() string { return f.key }

// Name returns the display name
func (f *Feature) Name() string { return f.name }

// CreatedAt returns when the feature was created
func (f *Feature) CreatedAt() time.Time { return f.createdAt }

// UpdatedAt returns when the feature was last updated
func (f *Feature) UpdatedAt() time.Time { return f.updatedAt }

// SetID sets the feature ID (only for persistence layer use)
func (f *Feature) SetID(id uint) error {
	if f.id != 0 {
		return fmt.Errorf("feature ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("feature ID cannot be zero")
	}
	f.id = id
	return nil
}

// Rename changes the display name. The key is immutable once the feature is
// referenced by any rule.
func (f *Feature) Rename(name string) error {
	if name == "" {
		return fmt.Errorf("feature name is required")
	}
	if len(name) > maxFeatureNameLen {
		return fmt.Errorf("feature name too long: max %d characters", maxFeatureNameLen)
	}
	f.name = name
	f.updatedAt = time.Now().UTC()
	return nil
}
