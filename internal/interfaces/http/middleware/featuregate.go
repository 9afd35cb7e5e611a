package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/services"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/shared/constants"
	"github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
	"github.com/unimatch-app/unimatch/internal/shared/utils"
)

// FeatureGateMiddleware gates routes behind the enforcement gate. Must run
// after the auth middleware, which loads the subject into the context.
type FeatureGateMiddleware struct {
	gate   *services.Gate
	logger logger.Interface
}

// NewFeatureGateMiddleware creates a new feature gate middleware
func NewFeatureGateMiddleware(gate *services.Gate, logger logger.Interface) *FeatureGateMiddleware {
	return &FeatureGateMiddleware{
		gate:   gate,
		logger: logger,
	}
}

// RequireFeature consumes one unit of the feature before the handler runs.
// The handler only executes after the consumption is durably recorded, so a
// quota of N admits exactly N requests regardless of concurrency. Denials
// come back as 403 with the reason; a gate error is a 500, never a denial.
func (m *FeatureGateMiddleware) RequireFeature(featureKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := m.subjectFromContext(c)
		if !ok {
			return
		}

		result, err := m.gate.Consume(c.Request.Context(), subject, featureKey)
		if err != nil {
			m.logger.Errorw("feature gate failed",
				"user_id", subject.UserID,
				"feature_key", featureKey,
				"error", err)
			utils.ErrorResponseWithError(c, errors.NewInternalError("failed to evaluate feature access"))
			c.Abort()
			return
		}

		if !result.Allowed {
			m.denied(c, subject, featureKey, result.Reason, result.Remaining)
			return
		}

		c.Next()
	}
}

// CheckFeature gates a route on access without consuming quota. For
// read-only endpoints that expose gated data but do not count as usage.
func (m *FeatureGateMiddleware) CheckFeature(featureKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := m.subjectFromContext(c)
		if !ok {
			return
		}

		decision, err := m.gate.CheckAccess(c.Request.Context(), subject, featureKey)
		if err != nil {
			m.logger.Errorw("feature check failed",
				"user_id", subject.UserID,
				"feature_key", featureKey,
				"error", err)
			utils.ErrorResponseWithError(c, errors.NewInternalError("failed to evaluate feature access"))
			c.Abort()
			return
		}

		if !decision.Allowed {
			m.denied(c, subject, featureKey, decision.Reason, decision.Remaining)
			return
		}

		c.Next()
	}
}

func (m *FeatureGateMiddleware) subjectFromContext(c *gin.Context) (entitlement.Subject, bool) {
	subject := entitlement.Subject{
		UserID: c.GetUint(constants.ContextKeyUserID),
		PlanID: c.GetUint(constants.ContextKeyPlanID),
	}
	if err := subject.Validate(); err != nil {
		m.logger.Errorw("invalid subject in context", "user_id", subject.UserID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("subject identity incomplete"))
		c.Abort()
		return entitlement.Subject{}, false
	}
	return subject, true
}

func (m *FeatureGateMiddleware) denied(c *gin.Context, subject entitlement.Subject, featureKey string, reason services.DenyReason, remaining *int64) {
	m.logger.Infow("feature access denied",
		"user_id", subject.UserID,
		"plan_id", subject.PlanID,
		"feature_key", featureKey,
		"reason", reason.String())

	body := gin.H{
		"feature_key": featureKey,
		"reason":      reason.String(),
	}
	if remaining != nil {
		body["remaining"] = *remaining
	}
	c.JSON(http.StatusForbidden, utils.APIResponse{
		Success: false,
		Data:    body,
		Error: &utils.ErrorInfo{
			Type:    string(errors.ErrorTypeForbidden),
			Message: "feature access denied",
			Details: reason.String(),
		},
	})
	c.Abort()
}
