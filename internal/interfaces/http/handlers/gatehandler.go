package handlers

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

// GateHandler exposes the enforcement gate to authenticated callers. A
// denial is an ordinary 200 payload with allowed=false, not an HTTP error;
// only an undecidable check (storage failure) produces a 5xx.
type GateHandler struct {
	gate   *services.Gate
	logger logger.Interface
}

// NewGateHandler creates a new gate handler
func NewGateHandler(gate *services.Gate, logger logger.Interface) *GateHandler {
	return &GateHandler{
		gate:   gate,
		logger: logger,
	}
}

type decisionResponse struct {
	FeatureKey string `json:"feature_key"`
	Allowed    bool   `json:"allowed"`
	Reason     string `json:"reason,omitempty"`
	Unlimited  bool   `json:"unlimited"`
	Remaining  *int64 `json:"remaining,omitempty"`
}

// Check reports whether the caller may use the feature, without consuming
// GET /me/entitlements/:featureKey
func (h *GateHandler) Check(c *gin.Context) {
	subject, ok := h.subjectFromContext(c)
	if !ok {
		return
	}
	featureKey := c.Param("featureKey")

	decision, err := h.gate.CheckAccess(c.Request.Context(), subject, featureKey)
	if err != nil {
		h.logger.Errorw("access check failed",
			"user_id", subject.UserID,
			"feature_key", featureKey,
			"error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to evaluate feature access"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", decisionResponse{
		FeatureKey: featureKey,
		Allowed:    decision.Allowed,
		Reason:     decision.Reason.String(),
		Unlimited:  decision.Unlimited,
		Remaining:  decision.Remaining,
	})
}

// Consume commits one unit of consumption for the caller
// POST /me/entitlements/:featureKey/consume
func (h *GateHandler) Consume(c *gin.Context) {
	subject, ok := h.subjectFromContext(c)
	if !ok {
		return
	}
	featureKey := c.Param("featureKey")

	result, err := h.gate.Consume(c.Request.Context(), subject, featureKey)
	if err != nil {
		h.logger.Errorw("consume failed",
			"user_id", subject.UserID,
			"feature_key", featureKey,
			"error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to record feature usage"))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", decisionResponse{
		FeatureKey: featureKey,
		Allowed:    result.Allowed,
		Reason:     result.Reason.String(),
		Unlimited:  result.Unlimited,
		Remaining:  result.Remaining,
	})
}

func (h *GateHandler) subjectFromContext(c *gin.Context) (entitlement.Subject, bool) {
	subject := entitlement.Subject{
		UserID: c.GetUint(constants.ContextKeyUserID),
		PlanID: c.GetUint(constants.ContextKeyPlanID),
	}
	if err := subject.Validate(); err != nil {
		h.logger.Errorw("invalid subject in context", "user_id", subject.UserID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("subject identity incomplete"))
		return entitlement.Subject{}, false
	}
	return subject, true
}
