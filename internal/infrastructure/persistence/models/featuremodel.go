package models

import (
	"time"

	"github.com/unimatch-app/unimatch/internal/shared/constants"
)

// FeatureModel represents the database persistence model for features
type FeatureModel struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;not null;size:64"`
	Name      string `gorm:"not null;size:100"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (FeatureModel) TableName() string {
	return constants.TableFeatures
}
