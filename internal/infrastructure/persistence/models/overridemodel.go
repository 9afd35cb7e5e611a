package models

import (
	"time"

	"github.com/unimatch-app/unimatch/internal/shared/constants"
)

// OverrideModel represents the database persistence model for per-user
// entitlement overrides. The composite unique index enforces at most one
// override per (user, feature).
type OverrideModel struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"uniqueIndex:idx_overrides_user_feature;not null"`
	FeatureKey  string `gorm:"uniqueIndex:idx_overrides_user_feature;not null;size:64"`
	AccessLevel string `gorm:"not null;size:20"`
	LimitValue  int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (OverrideModel) TableName() string {
	return constants.TableOverrides
}
