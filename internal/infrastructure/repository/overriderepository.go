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

// OverrideRepositoryImpl implements the entitlement.OverrideRepository interface
type OverrideRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.OverrideMapper
	logger logger.Interface
}

// NewOverrideRepository creates a new override repository instance
func NewOverrideRepository(db *gorm.DB, logger logger.Interface) entitlement.OverrideRepository {
	return &OverrideRepositoryImpl{
		db:     db,
		mapper: mappers.NewOverrideMapper(),
		logger: logger,
	}
}

// Upsert inserts or overwrites the override for the (user, feature) pair
func (r *OverrideRepositoryImpl) Upsert(ctx context.Context, override *entitlement.Override) error {
	model := r.mapper.ToModel(override)
	model.ID = 0

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "feature_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_level", "limit_value", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert override",
			"user_id", override.UserID(),
			"feature_key", override.FeatureKey(),
			"error", err)
		return fmt.Errorf("failed to upsert override: %w", err)
	}

	r.logger.Infow("override upserted",
		"user_id", override.UserID(),
		"feature_key", override.FeatureKey(),
		"access_level", override.AccessLevel().String())
	return nil
}

// GetByUserAndFeature retrieves the override for a (user, feature) pair
func (r *OverrideRepositoryImpl) GetByUserAndFeature(ctx context.Context, userID uint, featureKey string) (*entitlement.Override, error) {
	var model models.OverrideModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_key = ?", userID, featureKey).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get override",
			"user_id", userID,
			"feature_key", featureKey,
			"error", err)
		return nil, fmt.Errorf("failed to get override: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// List retrieves overrides matching the filter
func (r *OverrideRepositoryImpl) List(ctx context.Context, filter entitlement.OverrideFilter) ([]*entitlement.Override, error) {
	query := r.db.WithContext(ctx).Model(&models.OverrideModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.FeatureKey != nil {
		query = query.Where("feature_key = ?", *filter.FeatureKey)
	}

	var overrideModels []*models.OverrideModel
	if err := query.Order("user_id ASC, feature_key ASC").Find(&overrideModels).Error; err != nil {
		r.logger.Errorw("failed to list overrides", "error", err)
		return nil, fmt.Errorf("failed to list overrides: %w", err)
	}
	return r.mapper.ToEntities(overrideModels)
}

// Delete removes the override for a (user, feature) pair
func (r *OverrideRepositoryImpl) Delete(ctx context.Context, userID uint, featureKey string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_key = ?", userID, featureKey).
		Delete(&models.OverrideModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete override",
			"user_id", userID,
			"feature_key", featureKey,
			"error", result.Error)
		return fmt.Errorf("failed to delete override: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entitlement.ErrOverrideNotFound
	}

	r.logger.Infow("override deleted", "user_id", userID, "feature_key", featureKey)
	return nil
}

// AnyForFeature reports whether any override references the feature key
func (r *OverrideRepositoryImpl) AnyForFeature(ctx context.Context, featureKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OverrideModel{}).
		Where("feature_key = ?", featureKey).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count overrides for feature", "feature_key", featureKey, "error", err)
		return false, fmt.Errorf("failed to count overrides for feature: %w", err)
	}
	return count > 0, nil
}
