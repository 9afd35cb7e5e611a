package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/mappers"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
	apperrors "github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// PlanRepositoryImpl implements the entitlement.PlanRepository interface
type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB, logger logger.Interface) entitlement.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

// Create creates a new plan
func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *entitlement.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		return fmt.Errorf("failed to map plan: %w", err)
	}
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return entitlement.ErrDuplicatePlan
		}
		r.logger.Errorw("failed to create plan", "key", plan.Key(), "error", err)
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := plan.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set plan ID: %w", err)
	}

	r.logger.Infow("plan created", "id", model.ID, "key", model.Key)
	return nil
}

// Update updates an existing plan
func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *entitlement.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		return fmt.Errorf("failed to map plan: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.PlanModel{}).
		Where("id = ?", plan.ID()).
		Updates(map[string]any{
			"name":       model.Name,
			"metadata":   model.Metadata,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "id", plan.ID(), "error", result.Error)
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entitlement.ErrPlanNotFound
	}

	r.logger.Infow("plan updated", "id", plan.ID(), "key", plan.Key())
	return nil
}

// GetByID retrieves a plan by ID
func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*entitlement.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// GetByKey retrieves a plan by its unique key
func (r *PlanRepositoryImpl) GetByKey(ctx context.Context, key string) (*entitlement.Plan, error) {
	var model models.PlanModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan by key", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get plan by key: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// List retrieves all plans ordered by ID
func (r *PlanRepositoryImpl) List(ctx context.Context) ([]*entitlement.Plan, error) {
	var planModels []*models.PlanModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return r.mapper.ToEntities(planModels)
}
