// Package services provides application services for the entitlement
// context, primarily the enforcement gate.
package services

// DenyReason categorizes why an attempt was denied.
type DenyReason string

const (
	// DenyNotConfigured means no plan rule and no override exist for the
	// pair; operators should treat it as missing configuration, not an
	// intentional block
	DenyNotConfigured DenyReason = "not_configured"
	// DenyBlocked means the effective rule denies access explicitly
	DenyBlocked DenyReason = "blocked"
	// DenyQuotaExceeded means usage has reached the effective limit
	DenyQuotaExceeded DenyReason = "quota_exceeded"
)

// String returns the string representation of the deny reason
func (r DenyReason) String() string {
	return string(r)
}

// Decision is the structured outcome of a CheckAccess call. Denials are
// ordinary values, never errors; an error return means the system could not
// decide (storage failure), which callers must not read as a denial.
type Decision struct {
	Allowed   bool
	Reason    DenyReason // set when denied
	Unlimited bool       // true when the effective rule is unmetered
	Remaining *int64     // remaining quota for count rules, nil otherwise
}

// ConsumeResult is the structured outcome of a Consume call. A denial here
// is authoritative even if an earlier CheckAccess allowed: a concurrent
// consumer may have taken the last quota unit in between.
type ConsumeResult struct {
	Allowed   bool
	Reason    DenyReason // set when denied
	Unlimited bool       // true when the effective rule is unmetered
	Remaining *int64     // remaining quota after this consumption, nil when unmetered
}

func allowedDecision(unlimited bool, remaining *int64) Decision {
	return Decision{Allowed: true, Unlimited: unlimited, Remaining: remaining}
}

func deniedDecision(reason DenyReason) Decision {
	if reason == DenyQuotaExceeded {
		zero := int64(0)
		return Decision{Reason: reason, Remaining: &zero}
	}
	return Decision{Reason: reason}
}
