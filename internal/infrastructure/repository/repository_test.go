package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/unimatch-app/unimatch/internal/infrastructure/persistence/models"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
// Tests run sequentially against it; concurrency guarantees are covered by
// the gate tests against an in-memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.PlanModel{},
		&models.FeatureModel{},
		&models.PlanRuleModel{},
		&models.OverrideModel{},
		&models.UsageEventModel{},
		&models.UserModel{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}
