package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/usecases"
	"github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
	"github.com/unimatch-app/unimatch/internal/shared/utils"
)

// PlanRuleHandler handles plan rule administration HTTP requests
type PlanRuleHandler struct {
	upsertRule *usecases.UpsertPlanRuleUseCase
	listRules  *usecases.ListPlanRulesUseCase
	deleteRule *usecases.DeletePlanRuleUseCase
	logger     logger.Interface
}

// NewPlanRuleHandler creates a new plan rule handler
func NewPlanRuleHandler(
	upsertRule *usecases.UpsertPlanRuleUseCase,
	listRules *usecases.ListPlanRulesUseCase,
	deleteRule *usecases.DeletePlanRuleUseCase,
	logger logger.Interface,
) *PlanRuleHandler {
	return &PlanRuleHandler{
		upsertRule: upsertRule,
		listRules:  listRules,
		deleteRule: deleteRule,
		logger:     logger,
	}
}

type upsertPlanRuleRequest struct {
	PlanID      uint   `json:"plan_id" binding:"required"`
	FeatureKey  string `json:"feature_key" binding:"required,featurekey"`
	AccessLevel string `json:"access_level" binding:"required,oneof=unlimited count blocked"`
	LimitValue  int64  `json:"limit_value" binding:"omitempty,gt=0"`
}

// Upsert inserts or overwrites the rule for a (plan, feature) pair
// POST /admin/plan-rules
func (h *PlanRuleHandler) Upsert(c *gin.Context) {
	var req upsertPlanRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	rule, err := h.upsertRule.Execute(c.Request.Context(), usecases.UpsertPlanRuleCommand{
		PlanID:      req.PlanID,
		FeatureKey:  req.FeatureKey,
		AccessLevel: req.AccessLevel,
		LimitValue:  req.LimitValue,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan rule saved successfully", rule)
}

// List lists all plan rules
// GET /admin/plan-rules
func (h *PlanRuleHandler) List(c *gin.Context) {
	rules, err := h.listRules.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", rules)
}

type deletePlanRuleRequest struct {
	PlanID     uint   `json:"plan_id" binding:"required"`
	FeatureKey string `json:"feature_key" binding:"required"`
}

// Delete removes the rule for a (plan, feature) pair
// DELETE /admin/plan-rules
func (h *PlanRuleHandler) Delete(c *gin.Context) {
	var req deletePlanRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	err := h.deleteRule.Execute(c.Request.Context(), usecases.DeletePlanRuleCommand{
		PlanID:     req.PlanID,
		FeatureKey: req.FeatureKey,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan rule deleted successfully", nil)
}
