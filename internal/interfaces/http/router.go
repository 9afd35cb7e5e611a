// Package http wires the gin engine, routes and middleware.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/interfaces/http/handlers"
	"github.com/unimatch-app/unimatch/internal/interfaces/http/middleware"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// RouterConfig carries the handlers and middleware the router wires up
type RouterConfig struct {
	PlanHandler     *handlers.PlanHandler
	FeatureHandler  *handlers.FeatureHandler
	PlanRuleHandler *handlers.PlanRuleHandler
	OverrideHandler *handlers.OverrideHandler
	UsageHandler    *handlers.UsageHandler
	GateHandler     *handlers.GateHandler
	Auth            *middleware.AuthMiddleware
	AllowedOrigins  []string
	Logger          logger.Interface
}

// NewRouter builds the gin engine with all routes registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidators()

	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(cfg.Logger))
	engine.Use(middleware.CORS(cfg.AllowedOrigins))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	me := api.Group("/me")
	me.Use(cfg.Auth.RequireAuth())
	{
		me.GET("/entitlements/:featureKey", cfg.GateHandler.Check)
		me.POST("/entitlements/:featureKey/consume", cfg.GateHandler.Consume)
	}

	admin := api.Group("/admin")
	admin.Use(cfg.Auth.RequireAuth(), cfg.Auth.RequireAdmin())
	{
		admin.GET("/plans", cfg.PlanHandler.List)
		admin.POST("/plans", cfg.PlanHandler.Create)
		admin.PUT("/plans/:id", cfg.PlanHandler.Update)

		admin.GET("/features", cfg.FeatureHandler.List)
		admin.POST("/features", cfg.FeatureHandler.Create)
		admin.PUT("/features/:key", cfg.FeatureHandler.Update)

		admin.GET("/plan-rules", cfg.PlanRuleHandler.List)
		admin.POST("/plan-rules", cfg.PlanRuleHandler.Upsert)
		admin.DELETE("/plan-rules", cfg.PlanRuleHandler.Delete)

		admin.GET("/overrides", cfg.OverrideHandler.List)
		admin.POST("/overrides", cfg.OverrideHandler.Upsert)
		admin.DELETE("/overrides", cfg.OverrideHandler.Delete)

		admin.GET("/usage", cfg.UsageHandler.Report)
		admin.POST("/usage/reset", cfg.UsageHandler.Reset)
	}

	return engine
}

// registerValidators installs custom binding rules on gin's validator
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("featurekey", func(fl validator.FieldLevel) bool {
			return entitlement.ValidFeatureKey(fl.Field().String())
		})
	}
}
