// Package usage provides the append-only usage event model and the store
// contract for counting, atomically recording and resetting consumption.
package usage

import (
	"fmt"
	"time"
)

// Event is one recorded instance of a user consuming a feature. Events are
// append-only: rows are inserted by the enforcement gate and bulk-deleted
// only by an explicit admin reset, never mutated.
type Event struct {
	id         uint
	userID     uint
	featureKey string
	occurredAt time.Time
}

// NewEvent creates a new usage event stamped with the current time
func NewEvent(userID uint, featureKey string) (*Event, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	return &Event{
		userID:     userID,
		featureKey: featureKey,
		occurredAt: time.Now().UTC(),
	}, nil
}

// ReconstructEvent reconstructs a usage event from persistence
func ReconstructEvent(id, userID uint, featureKey string, occurredAt time.Time) (*Event, error) {
	if id == 0 {
		return nil, fmt.Errorf("usage event ID cannot be zero")
	}
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if featureKey == "" {
		return nil, fmt.Errorf("feature key is required")
	}
	return &Event{
		id:         id,
		userID:     userID,
		featureKey: featureKey,
		occurredAt: occurredAt,
	}, nil
}

// ID returns the event ID
func (e *Event) ID() uint { return e.id }

// UserID returns the consuming user
func (e *Event) UserID() uint { return e.userID }

// FeatureKey returns the consumed feature key
func (e *Event) FeatureKey() string { return e.featureKey }

// OccurredAt returns when the consumption was recorded
func (e *Event) OccurredAt() time.Time { return e.occurredAt }

// SetID sets the event ID (only for persistence layer use)
func (e *Event) SetID(id uint) error {
	if e.id != 0 {
		return fmt.Errorf("usage event ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("usage event ID cannot be zero")
	}
	e.id = id
	return nil
}
