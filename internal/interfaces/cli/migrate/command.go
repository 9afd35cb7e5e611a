// Package migrate provides the CLI command that applies the schema.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unimatch-app/unimatch/internal/infrastructure/config"
	"github.com/unimatch-app/unimatch/internal/infrastructure/database"
	"github.com/unimatch-app/unimatch/internal/infrastructure/migration"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

var env string

// NewCommand creates the migrate command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(newUpCommand())

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply the schema and seed data",
		RunE:  runUp,
	}
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := migration.Run(database.Get(), logger.NewLogger()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("migration completed")
	return nil
}
