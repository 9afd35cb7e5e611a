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

// FeatureRepositoryImpl implements the entitlement.FeatureRepository interface
type FeatureRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.FeatureMapper
	logger logger.Interface
}

// NewFeatureRepository creates a new feature repository instance
func NewFeatureRepository(db *gorm.DB, logger logger.Interface) entitlement.FeatureRepository {
	return &FeatureRepositoryImpl{
		db:     db,
		mapper: mappers.NewFeatureMapper(),
		logger: logger,
	}
}

// Create creates a new feature
func (r *FeatureRepositoryImpl) Create(ctx context.Context, feature *entitlement.Feature) error {
	model := r.mapper.ToModel(feature)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return entitlement.ErrDuplicateFeature
		}
		r.logger.Errorw("failed to create feature", "key", feature.Key(), "error", err)
		return fmt.Errorf("failed to create feature: %w", err)
	}

	if err := feature.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set feature ID: %w", err)
	}

	r.logger.Infow("feature created", "id", model.ID, "key", model.Key)
	return nil
}

// Update updates an existing feature
func (r *FeatureRepositoryImpl) Update(ctx context.Context, feature *entitlement.Feature) error {
	result := r.db.WithContext(ctx).
		Model(&models.FeatureModel{}).
		Where("key = ?", feature.Key()).
		Updates(map[string]any{
			"name":       feature.Name(),
			"updated_at": feature.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update feature", "key", feature.Key(), "error", result.Error)
		return fmt.Errorf("failed to update feature: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entitlement.ErrFeatureNotFound
	}

	r.logger.Infow("feature updated", "key", feature.Key())
	return nil
}

// GetByKey retrieves a feature by key
func (r *FeatureRepositoryImpl) GetByKey(ctx context.Context, key string) (*entitlement.Feature, error) {
	var model models.FeatureModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get feature by key", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get feature by key: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

// List retrieves all features ordered by key
func (r *FeatureRepositoryImpl) List(ctx context.Context) ([]*entitlement.Feature, error) {
	var featureModels []*models.FeatureModel
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&featureModels).Error; err != nil {
		r.logger.Errorw("failed to list features", "error", err)
		return nil, fmt.Errorf("failed to list features: %w", err)
	}
	return r.mapper.ToEntities(featureModels)
}
