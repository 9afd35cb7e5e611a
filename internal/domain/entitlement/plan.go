package entitlement

import (
	"fmt"
	"time"
)

const (
	maxPlanKeyLen  = 50
	maxPlanNameLen = 100
)

// Plan represents a purchasable tier a user can be subscribed to.
// A user has exactly one plan; the "free" plan is assigned at creation.
type Plan struct {
	id        uint
	key       string
	name      string
	metadata  map[string]any
	createdAt time.Time
	updatedAt time.Time
}

// NewPlan creates a new plan
func NewPlan(key, name string) (*Plan, error) {
	if key == "" {
		return nil, fmt.Errorf("plan key is required")
	}
	if len(key) > maxPlanKeyLen {
		return nil, fmt.Errorf("plan key too long: max %d characters", maxPlanKeyLen)
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if len(name) > maxPlanNameLen {
		return nil, fmt.Errorf("plan name too long: max %d characters", maxPlanNameLen)
	}

	now := time.Now().UTC()
	return &Plan{
		key:       key,
		name:      name,
		metadata:  make(map[string]any),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPlan reconstructs a plan from persistence
func ReconstructPlan(id uint, key, name string, metadata map[string]any, createdAt, updatedAt time.Time) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if key == "" {
		return nil, fmt.Errorf("plan key is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return &Plan{
		id:        id,
		key:       key,
		name:      name,
		metadata:  metadata,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

// ID returns the plan ID
func (p *Plan) ID() uint { return p.id }

// Key returns the unique short name of the plan (e.g. "free", "pro")
func (p *Plan) Key() string { return p.key }

// Name returns the display name
func (p *Plan) Name() string { return p.name }

// Metadata returns the plan metadata
func (p *Plan) Metadata() map[string]any { return p.metadata }

// CreatedAt returns when the plan was created
func (p *Plan) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the plan was last updated
func (p *Plan) UpdatedAt() time.Time { return p.updatedAt }

// SetID sets the plan ID (only for persistence layer use)
func (p *Plan) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("plan ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("plan ID cannot be zero")
	}
	p.id = id
	return nil
}

// Rename changes the plan display name. The key is immutable: callers and
// user rows reference it.
func (p *Plan) Rename(name string) error {
	if name == "" {
		return fmt.Errorf("plan name is required")
	}
	if len(name) > maxPlanNameLen {
		return fmt.Errorf("plan name too long: max %d characters", maxPlanNameLen)
	}
	p.name = name
	p.updatedAt = time.Now().UTC()
	return nil
}

// SetMetadata replaces the plan metadata
func (p *Plan) SetMetadata(metadata map[string]any) {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	p.metadata = metadata
	p.updatedAt = time.Now().UTC()
}
