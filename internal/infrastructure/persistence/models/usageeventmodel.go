package models

import (
	"time"

	"github.com/unimatch-app/unimatch/internal/shared/constants"
)

// UsageEventModel represents the database persistence model for usage
// events. Rows are append-only: inserted by the gate, bulk-deleted by an
// admin reset, never updated. The composite index is what the
// record-and-check transaction locks to serialize concurrent consumers.
type UsageEventModel struct {
	ID         uint   `gorm:"primarykey"`
	UserID     uint   `gorm:"index:idx_usage_events_user_feature;not null"`
	FeatureKey string `gorm:"index:idx_usage_events_user_feature;not null;size:64"`
	OccurredAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (UsageEventModel) TableName() string {
	return constants.TableUsageEvents
}
