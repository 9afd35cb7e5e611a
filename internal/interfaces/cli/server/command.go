// Package server provides the CLI command that runs the HTTP server.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/services"
	"github.com/unimatch-app/unimatch/internal/application/entitlement/usecases"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/cache"
	"github.com/unimatch-app/unimatch/internal/infrastructure/config"
	"github.com/unimatch-app/unimatch/internal/infrastructure/database"
	"github.com/unimatch-app/unimatch/internal/infrastructure/migration"
	"github.com/unimatch-app/unimatch/internal/infrastructure/repository"
	httpRouter "github.com/unimatch-app/unimatch/internal/interfaces/http"
	"github.com/unimatch-app/unimatch/internal/interfaces/http/handlers"
	"github.com/unimatch-app/unimatch/internal/interfaces/http/middleware"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

// NewCommand creates the server command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server", "environment", env, "auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	log := logger.NewLogger()

	if autoMigrate {
		if err := migration.Run(database.Get(), log); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	db := database.Get()

	// Repositories
	planRepo := repository.NewPlanRepository(db, log)
	featureRepo := repository.NewFeatureRepository(db, log)
	overrideRepo := repository.NewOverrideRepository(db, log)
	usageRepo := repository.NewUsageEventRepository(db, log)
	planAssignRepo := repository.NewUserPlanRepository(db, log)

	ruleRepo := repository.NewPlanRuleRepository(db, log)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.GetAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		ruleCache := cache.NewRedisPlanRuleCache(redisClient, cfg.Entitlement.RuleCacheTTL(), log)
		ruleRepo = repository.NewCachedPlanRuleRepository(ruleRepo, ruleCache, log)
		logger.Info("plan rule cache enabled", "ttl", cfg.Entitlement.RuleCacheTTL())
	}

	// Domain services
	resolver := entitlement.NewResolver(overrideRepo, ruleRepo)
	gate := services.NewGate(resolver, usageRepo, log)

	// Use cases
	planHandler := handlers.NewPlanHandler(
		usecases.NewCreatePlanUseCase(planRepo, log),
		usecases.NewUpdatePlanUseCase(planRepo, log),
		usecases.NewListPlansUseCase(planRepo, log),
		log,
	)
	featureHandler := handlers.NewFeatureHandler(
		usecases.NewCreateFeatureUseCase(featureRepo, log),
		usecases.NewUpdateFeatureUseCase(featureRepo, log),
		usecases.NewListFeaturesUseCase(featureRepo, log),
		log,
	)
	planRuleHandler := handlers.NewPlanRuleHandler(
		usecases.NewUpsertPlanRuleUseCase(planRepo, featureRepo, ruleRepo, log),
		usecases.NewListPlanRulesUseCase(ruleRepo, log),
		usecases.NewDeletePlanRuleUseCase(ruleRepo, log),
		log,
	)
	overrideHandler := handlers.NewOverrideHandler(
		usecases.NewUpsertOverrideUseCase(featureRepo, overrideRepo, log),
		usecases.NewListOverridesUseCase(overrideRepo, log),
		usecases.NewDeleteOverrideUseCase(overrideRepo, log),
		log,
	)
	usageHandler := handlers.NewUsageHandler(
		usecases.NewResetUsageUseCase(usageRepo, log),
		usecases.NewUsageReportUseCase(usageRepo, overrideRepo, ruleRepo, planAssignRepo, log),
		log,
	)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWT.Secret, log)

	engine := httpRouter.NewRouter(httpRouter.RouterConfig{
		PlanHandler:     planHandler,
		FeatureHandler:  featureHandler,
		PlanRuleHandler: planRuleHandler,
		OverrideHandler: overrideHandler,
		UsageHandler:    usageHandler,
		GateHandler:     handlers.NewGateHandler(gate, log),
		Auth:            authMiddleware,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Logger:          log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
