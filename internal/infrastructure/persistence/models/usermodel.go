package models

import (
	"time"

	"github.com/unimatch-app/unimatch/internal/shared/constants"
)

// UserModel is the slice of the identity subsystem's user table this
// service reads: the non-nullable plan assignment. Account fields (email,
// credentials, profile) are owned elsewhere and deliberately absent here.
type UserModel struct {
	ID        uint `gorm:"primarykey"`
	PlanID    uint `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
