package models

import (
	"time"

	"github.com/unimatch-app/unimatch/internal/shared/constants"
)

// PlanRuleModel represents the database persistence model for plan-level
// entitlement rules. The composite unique index enforces at most one rule
// per (plan, feature).
type PlanRuleModel struct {
	ID          uint   `gorm:"primarykey"`
	PlanID      uint   `gorm:"uniqueIndex:idx_plan_rules_plan_feature;not null"`
	FeatureKey  string `gorm:"uniqueIndex:idx_plan_rules_plan_feature;not null;size:64"`
	AccessLevel string `gorm:"not null;size:20"`
	LimitValue  int64  `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for GORM
func (PlanRuleModel) TableName() string {
	return constants.TablePlanRules
}
