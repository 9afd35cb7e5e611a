// Package migration applies the database schema and seed data.
package migration

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/mappers"
	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
	"github.com/unimatch-app/unimatch/internal/shared/constants"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// AutoMigrateModels returns the persistence models in migration order
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PlanModel{},
		&models.FeatureModel{},
		&models.PlanRuleModel{},
		&models.OverrideModel{},
		&models.UsageEventModel{},
		&models.UserModel{},
	}
}

// Run applies the schema and seeds required rows
func Run(db *gorm.DB, log logger.Interface) error {
	if err := db.AutoMigrate(AutoMigrateModels()...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	log.Infow("schema migration completed", "models", len(AutoMigrateModels()))

	if err := EnsureDefaultPlan(context.Background(), db, log); err != nil {
		return err
	}
	return nil
}

// EnsureDefaultPlan seeds the default plan every user starts on. User rows
// carry a non-nullable plan assignment, so this plan must exist before any
// user can be created.
func EnsureDefaultPlan(ctx context.Context, db *gorm.DB, log logger.Interface) error {
	var count int64
	err := db.WithContext(ctx).
		Model(&models.PlanModel{}).
		Where("key = ?", constants.DefaultPlanKey).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check default plan: %w", err)
	}
	if count > 0 {
		return nil
	}

	plan, err := entitlement.NewPlan(constants.DefaultPlanKey, "Free")
	if err != nil {
		return fmt.Errorf("failed to build default plan: %w", err)
	}

	model, err := mappers.NewPlanMapper().ToModel(plan)
	if err != nil {
		return fmt.Errorf("failed to map default plan: %w", err)
	}

	if err := db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to seed default plan: %w", err)
	}

	log.Infow("default plan seeded", "key", constants.DefaultPlanKey, "id", model.ID)
	return nil
}
