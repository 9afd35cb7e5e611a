package entitlement

import "context"

// PlanRepository defines the interface for plan persistence operations
type PlanRepository interface {
	// Create creates a new plan; ErrDuplicatePlan when the key exists
	Create(ctx context.Context, plan *Plan) error

	// Update updates an existing plan
	Update(ctx context.Context, plan *Plan) error

	// GetByID retrieves a plan by ID; (nil, nil) when not found
	GetByID(ctx context.Context, id uint) (*Plan, error)

	// GetByKey retrieves a plan by its unique key; (nil, nil) when not found
	GetByKey(ctx context.Context, key string) (*Plan, error)

	// List retrieves all plans ordered by ID
	List(ctx context.Context) ([]*Plan, error)
}

// FeatureRepository defines the interface for feature persistence operations
type FeatureRepository interface {
	// Create creates a new feature; ErrDuplicateFeature when the key exists
	Create(ctx context.Context, feature *Feature) error

	// Update updates an existing feature
	Update(ctx context.Context, feature *Feature) error

	// GetByKey retrieves a feature by key; (nil, nil) when not found
	GetByKey(ctx context.Context, key string) (*Feature, error)

	// List retrieves all features ordered by key
	List(ctx context.Context) ([]*Feature, error)
}

// PlanRuleRepository defines the interface for plan rule persistence
type PlanRuleRepository interface {
	// Upsert inserts the rule or overwrites access_level/limit_value for the
	// existing (plan_id, feature_key) row
	Upsert(ctx context.Context, rule *PlanRule) error

	// GetByPlanAndFeature retrieves the rule for a (plan, feature) pair;
	// (nil, nil) when not configured
	GetByPlanAndFeature(ctx context.Context, planID uint, featureKey string) (*PlanRule, error)

	// List retrieves all plan rules ordered by plan then feature key
	List(ctx context.Context) ([]*PlanRule, error)

	// Delete removes the rule for a (plan, feature) pair; ErrPlanRuleNotFound
	// when absent
	Delete(ctx context.Context, planID uint, featureKey string) error

	// AnyForFeature reports whether any plan rule references the feature key
	AnyForFeature(ctx context.Context, featureKey string) (bool, error)
}

// OverrideFilter narrows override listing for reporting.
type OverrideFilter struct {
	UserID     *uint
	FeatureKey *string
}

// OverrideRepository defines the interface for per-user override persistence
type OverrideRepository interface {
	// Upsert inserts the override or overwrites access_level/limit_value for
	// the existing (user_id, feature_key) row
	Upsert(ctx context.Context, override *Override) error

	// GetByUserAndFeature retrieves the override for a (user, feature) pair;
	// (nil, nil) when absent
	GetByUserAndFeature(ctx context.Context, userID uint, featureKey string) (*Override, error)

	// List retrieves overrides matching the filter
	List(ctx context.Context, filter OverrideFilter) ([]*Override, error)

	// Delete removes the override for a (user, feature) pair;
	// ErrOverrideNotFound when absent
	Delete(ctx context.Context, userID uint, featureKey string) error

	// AnyForFeature reports whether any override references the feature key
	AnyForFeature(ctx context.Context, featureKey string) (bool, error)
}

// PlanAssignmentRepository resolves which plan a user is on. User accounts
// are owned by the identity subsystem; this interface only reads the
// non-nullable plan assignment.
type PlanAssignmentRepository interface {
	// PlanIDByUser returns the plan assigned to the user; ErrPlanNotFound
	// wrapped when the user row is missing
	PlanIDByUser(ctx context.Context, userID uint) (uint, error)

	// PlanIDsByUsers returns the plan assignment for each known user ID;
	// unknown users are absent from the result map
	PlanIDsByUsers(ctx context.Context, userIDs []uint) (map[uint]uint, error)
}
