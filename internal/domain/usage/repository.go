package usage

import "context"

// RecordResult reports the outcome of an atomic record-and-check.
type RecordResult struct {
	// Allowed is true when the event was inserted without exceeding the limit
	Allowed bool
	// CountAfter is the usage count after the operation (unchanged on deny)
	CountAfter int64
}

// Filter narrows aggregate reporting. Nil fields match everything.
type Filter struct {
	UserID     *uint
	FeatureKey *string
}

// PairCount is one aggregate row: total events for a (user, feature) pair.
type PairCount struct {
	UserID     uint
	FeatureKey string
	Count      int64
}

// Repository is the usage store contract. Consumption is cumulative until
// explicitly reset; there is no implicit time window.
type Repository interface {
	// Count returns the total number of events for the (user, feature) pair
	Count(ctx context.Context, userID uint, featureKey string) (int64, error)

	// RecordAndCheck atomically inserts one event only if the resulting
	// count would not exceed limit, otherwise performs no insert. This is
	// the concurrency-critical primitive: implementations must not decompose
	// it into a detached read followed by a separate write. With current
	// usage limit-1, at most one of any number of concurrent calls may
	// observe Allowed == true.
	RecordAndCheck(ctx context.Context, userID uint, featureKey string, limit int64) (RecordResult, error)

	// Reset deletes all events for the (user, feature) pair. Idempotent:
	// resetting an empty pair is a no-op, not an error.
	Reset(ctx context.Context, userID uint, featureKey string) error

	// Aggregate returns grouped event counts matching the filter. Reporting
	// only; not used on the enforcement hot path.
	Aggregate(ctx context.Context, filter Filter) ([]PairCount, error)
}
