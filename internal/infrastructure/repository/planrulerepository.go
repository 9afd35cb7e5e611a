package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/mappers"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// PlanRuleRepositoryImpl implements the entitlement.PlanRuleRepository interface
type PlanRuleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanRuleMapper
	logger logger.Interface
}

// NewPlanRuleRepository creates a new plan rule repository instance
func NewPlanRuleRepository(db *gorm.DB, logger logger.Interface) entitlement.PlanRuleRepository {
	return &PlanRuleRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanRuleMapper(),
		logger: logger,
	}
}

// Upsert inserts or overwrites the rule for the (plan, feature) pair
func (r *PlanRuleRepositoryImpl) Upsert(ctx context.Context, rule *entitlement.PlanRule) error {
	model := r.mapper.ToModel(rule)
	model.ID = 0

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plan_id"}, {Name: "feature_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_level", "limit_value", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert plan rule",
			"plan_id", rule.PlanID(),
			"feature_key", rule.FeatureKey(),
			"error", err)
		return fmt.Errorf("failed to upsert plan rule: %w", err)
	}

	r.logger.Infow("plan rule upserted",
		"plan_id", rule.PlanID(),
		"feature_key", rule.FeatureKey(),
		"access_level", rule.AccessLevel().String())
	return nil
}

// GetByPlanAndFeature retrieves the rule for a (plan, feature) pair
func (r *PlanRuleRepositoryImpl) GetByPlanAndFeature(ctx context.Context, planID uint, featureKey string) (*entitlement.PlanRule, error) {
	var model models.PlanRuleModel
	err := r.db.WithContext(ctx).
		Where("plan_id = ? AND feature_key = ?", planID, featureKey).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan rule",
			"plan_id", planID,
			"feature_key", featureKey,
			"error", err)
		return nil, fmt.Errorf("failed to get plan rule: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// List retrieves all plan rules ordered by plan then feature key
func (r *PlanRuleRepositoryImpl) List(ctx context.Context) ([]*entitlement.PlanRule, error) {
	var ruleModels []*models.PlanRuleModel
	err := r.db.WithContext(ctx).
		Order("plan_id ASC, feature_key ASC").
		Find(&ruleModels).Error
	if err != nil {
		r.logger.Errorw("failed to list plan rules", "error", err)
		return nil, fmt.Errorf("failed to list plan rules: %w", err)
	}
	return r.mapper.ToEntities(ruleModels)
}

// Delete removes the rule for a (plan, feature) pair
func (r *PlanRuleRepositoryImpl) Delete(ctx context.Context, planID uint, featureKey string) error {
	result := r.db.WithContext(ctx).
		Where("plan_id = ? AND feature_key = ?", planID, featureKey).
		Delete(&models.PlanRuleModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete plan rule",
			"plan_id", planID,
			"feature_key", featureKey,
			"error", result.Error)
		return fmt.Errorf("failed to delete plan rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entitlement.ErrPlanRuleNotFound
	}

	r.logger.Infow("plan rule deleted", "plan_id", planID, "feature_key", featureKey)
	return nil
}

// AnyForFeature reports whether any plan rule references the feature key
func (r *PlanRuleRepositoryImpl) AnyForFeature(ctx context.Context, featureKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PlanRuleModel{}).
		Where("feature_key = ?", featureKey).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count plan rules for feature", "feature_key", featureKey, "error", err)
		return false, fmt.Errorf("failed to count plan rules for feature: %w", err)
	}
	return count > 0, nil
}
