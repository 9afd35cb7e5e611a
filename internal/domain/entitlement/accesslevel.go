// Package entitlement provides domain models and business logic for feature
// entitlements: plans, features, plan-level rules, per-user overrides and
// the resolution of the effective rule for a (user, feature) pair.
package entitlement

// AccessLevel represents how a rule grants access to a feature
type AccessLevel string

const (
	// AccessUnlimited grants unmetered access to the feature
	AccessUnlimited AccessLevel = "unlimited"
	// AccessCount grants access up to a usage limit
	AccessCount AccessLevel = "count"
	// AccessBlocked denies access explicitly
	AccessBlocked AccessLevel = "blocked"
)

// IsValid checks if the access level is valid
func (a AccessLevel) IsValid() bool {
	switch a {
	case AccessUnlimited, AccessCount, AccessBlocked:
		return true
	default:
		return false
	}
}

// String returns the string representation of the access level
func (a AccessLevel) String() string {
	return string(a)
}

// RuleSource identifies which configuration layer produced an effective rule
type RuleSource string

const (
	// SourcePlan indicates the rule came from the subject's plan
	SourcePlan RuleSource = "plan"
	// SourceOverride indicates the rule came from a per-user override
	SourceOverride RuleSource = "override"
)

// String returns the string representation of the rule source
func (s RuleSource) String() string {
	return string(s)
}

// EffectiveRule is the resolved access rule for a (user, feature) pair.
// The limit is only meaningful when the access level is AccessCount.
type EffectiveRule struct {
	accessLevel AccessLevel
	limitValue  int64
	source      RuleSource
}

// NewEffectiveRule builds an effective rule from a configured rule's fields.
func NewEffectiveRule(level AccessLevel, limit int64, source RuleSource) EffectiveRule {
	return EffectiveRule{accessLevel: level, limitValue: limit, source: source}
}

// AccessLevel returns the resolved access level
func (r EffectiveRule) AccessLevel() AccessLevel {
	return r.accessLevel
}

// Limit returns the usage limit; callers must only consult it when IsCounted
func (r EffectiveRule) Limit() int64 {
	return r.limitValue
}

// Source returns which layer the rule was resolved from
func (r EffectiveRule) Source() RuleSource {
	return r.source
}

// IsUnlimited reports whether the rule grants unmetered access
func (r EffectiveRule) IsUnlimited() bool {
	return r.accessLevel == AccessUnlimited
}

// IsCounted reports whether the rule is quota limited
func (r EffectiveRule) IsCounted() bool {
	return r.accessLevel == AccessCount
}

// IsBlocked reports whether the rule denies access explicitly
func (r EffectiveRule) IsBlocked() bool {
	return r.accessLevel == AccessBlocked
}
