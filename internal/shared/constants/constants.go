// Package constants defines application-wide constants shared across layers.
package constants

// Database table names
const (
	TablePlans       = "plans"
	TableFeatures    = "features"
	TablePlanRules   = "plan_rules"
	TableOverrides   = "feature_overrides"
	TableUsageEvents = "usage_events"
	TableUsers       = "users"
)

// DefaultPlanKey is the key of the plan assigned to users at creation time.
// Every user row carries a non-nullable plan_id, so this key is only needed
// when seeding, never on the request path.
const DefaultPlanKey = "free"

// Context keys set by the auth middleware
const (
	ContextKeyUserID = "user_id"
	ContextKeyPlanID = "plan_id"
	ContextKeyRole   = "role"
)

// RoleAdmin is the role required for the administration API.
const RoleAdmin = "admin"
