package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UserPlanRepositoryImpl implements the entitlement.PlanAssignmentRepository
// interface over the identity subsystem's user table.
type UserPlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewUserPlanRepository creates a new plan assignment repository instance
func NewUserPlanRepository(db *gorm.DB, logger logger.Interface) entitlement.PlanAssignmentRepository {
	return &UserPlanRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// PlanIDByUser returns the plan assigned to the user
func (r *UserPlanRepositoryImpl) PlanIDByUser(ctx context.Context, userID uint) (uint, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Select("id, plan_id").
		First(&model, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user %d: %w", userID, entitlement.ErrPlanNotFound)
		}
		r.logger.Errorw("failed to get plan assignment", "user_id", userID, "error", err)
		return 0, fmt.Errorf("failed to get plan assignment: %w", err)
	}
	return model.PlanID, nil
}

// PlanIDsByUsers returns the plan assignment for each known user ID
func (r *UserPlanRepositoryImpl) PlanIDsByUsers(ctx context.Context, userIDs []uint) (map[uint]uint, error) {
	assignments := make(map[uint]uint, len(userIDs))
	if len(userIDs) == 0 {
		return assignments, nil
	}

	var userModels []models.UserModel
	err := r.db.WithContext(ctx).
		Select("id, plan_id").
		Where("id IN ?", userIDs).
		Find(&userModels).Error
	if err != nil {
		r.logger.Errorw("failed to get plan assignments", "count", len(userIDs), "error", err)
		return nil, fmt.Errorf("failed to get plan assignments: %w", err)
	}

	for _, model := range userModels {
		assignments[model.ID] = model.PlanID
	}
	return assignments, nil
}
