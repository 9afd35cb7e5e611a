// Package models contains the gorm persistence models. They form the
// anti-corruption layer between the domain entities and the database.
package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/unimatch-app/unimatch/internal/shared/constants"
)

// PlanModel represents the database persistence model for plans
type PlanModel struct {
	ID        uint   `gorm:"primarykey"`
	Key       string `gorm:"uniqueIndex;not null;size:50"`
	Name      string `gorm:"not null;size:100"`
	Metadata  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}
