package entitlement

import "errors"

var (
	// ErrNotConfigured is returned when neither an override nor a plan rule
	// exists for a (plan/user, feature) pair. Deliberately distinct from an
	// explicit block so operators can tell missing configuration from
	// intentional denial.
	ErrNotConfigured = errors.New("no entitlement rule configured")

	// ErrPlanNotFound is returned when a plan is not found
	ErrPlanNotFound = errors.New("plan not found")

	// ErrFeatureNotFound is returned when a feature is not found
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrPlanRuleNotFound is returned when a plan rule is not found
	ErrPlanRuleNotFound = errors.New("plan rule not found")

	// ErrOverrideNotFound is returned when an override is not found
	ErrOverrideNotFound = errors.New("override not found")

	// ErrDuplicatePlan is returned when a plan key already exists
	ErrDuplicatePlan = errors.New("plan key already exists")

	// ErrDuplicateFeature is returned when a feature key already exists
	ErrDuplicateFeature = errors.New("feature key already exists")

	// ErrFeatureInUse is returned when a feature key referenced by a rule
	// would be mutated or removed
	ErrFeatureInUse = errors.New("feature is referenced by existing rules")

	// ErrSubjectPlanRequired is returned when a subject carries no plan.
	// Users are assigned the default plan at creation, so a zero plan ID
	// indicates a caller bug rather than a free-tier user.
	ErrSubjectPlanRequired = errors.New("subject plan is required")
)
