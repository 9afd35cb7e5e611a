package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/unimatch-app/unimatch/internal/domain/usage"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// UsageEventRepositoryImpl implements the usage.Repository interface
type UsageEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewUsageEventRepository creates a new usage event repository instance
func NewUsageEventRepository(db *gorm.DB, logger logger.Interface) usage.Repository {
	return &UsageEventRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

// Count returns the total number of events for the (user, feature) pair
func (r *UsageEventRepositoryImpl) Count(ctx context.Context, userID uint, featureKey string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UsageEventModel{}).
		Where("user_id = ? AND feature_key = ?", userID, featureKey).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to count usage events",
			"user_id", userID,
			"feature_key", featureKey,
			"error", err)
		return 0, fmt.Errorf("failed to count usage events: %w", err)
	}
	return count, nil
}

// RecordAndCheck atomically inserts one event only if the resulting count
// stays within limit. The count query takes row locks on the (user_id,
// feature_key) index range, so concurrent transactions for the same pair
// serialize on the count and cannot both observe room for the last slot.
func (r *UsageEventRepositoryImpl) RecordAndCheck(ctx context.Context, userID uint, featureKey string, limit int64) (usage.RecordResult, error) {
	event, err := usage.NewEvent(userID, featureKey)
	if err != nil {
		return usage.RecordResult{}, fmt.Errorf("failed to build usage event: %w", err)
	}

	var result usage.RecordResult
	txErr := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.UsageEventModel{})
		// sqlite has no FOR UPDATE; its single-writer transactions already
		// serialize, so the lock is only needed on mysql
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var current int64
		err := query.
			Where("user_id = ? AND feature_key = ?", userID, featureKey).
			Count(&current).Error
		if err != nil {
			return fmt.Errorf("failed to count usage events: %w", err)
		}

		if current >= limit {
			result = usage.RecordResult{Allowed: false, CountAfter: current}
			return nil
		}

		model := &models.UsageEventModel{
			UserID:     event.UserID(),
			FeatureKey: event.FeatureKey(),
			OccurredAt: event.OccurredAt(),
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to record usage event: %w", err)
		}

		result = usage.RecordResult{Allowed: true, CountAfter: current + 1}
		return nil
	})
	if txErr != nil {
		r.logger.Errorw("record-and-check transaction failed",
			"user_id", userID,
			"feature_key", featureKey,
			"error", txErr)
		return usage.RecordResult{}, txErr
	}

	return result, nil
}

// Reset deletes all events for the (user, feature) pair
func (r *UsageEventRepositoryImpl) Reset(ctx context.Context, userID uint, featureKey string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND feature_key = ?", userID, featureKey).
		Delete(&models.UsageEventModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to reset usage",
			"user_id", userID,
			"feature_key", featureKey,
			"error", result.Error)
		return fmt.Errorf("failed to reset usage: %w", result.Error)
	}

	r.logger.Infow("usage reset",
		"user_id", userID,
		"feature_key", featureKey,
		"deleted", result.RowsAffected)
	return nil
}

// Aggregate returns grouped event counts matching the filter
func (r *UsageEventRepositoryImpl) Aggregate(ctx context.Context, filter usage.Filter) ([]usage.PairCount, error) {
	query := r.db.WithContext(ctx).
		Model(&models.UsageEventModel{}).
		Select("user_id, feature_key, COUNT(*) as count").
		Group("user_id, feature_key")
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.FeatureKey != nil {
		query = query.Where("feature_key = ?", *filter.FeatureKey)
	}

	var rows []usage.PairCount
	if err := query.Order("user_id ASC, feature_key ASC").Scan(&rows).Error; err != nil {
		r.logger.Errorw("failed to aggregate usage", "error", err)
		return nil, fmt.Errorf("failed to aggregate usage: %w", err)
	}
	return rows, nil
}
