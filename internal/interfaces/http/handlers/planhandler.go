// Package handlers exposes the administration HTTP API.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/usecases"
	"github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
	"github.com/unimatch-app/unimatch/internal/shared/utils"
)

// PlanHandler handles plan administration HTTP requests
type PlanHandler struct {
	createPlan *usecases.CreatePlanUseCase
	updatePlan *usecases.UpdatePlanUseCase
	listPlans  *usecases.ListPlansUseCase
	logger     logger.Interface
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(
	createPlan *usecases.CreatePlanUseCase,
	updatePlan *usecases.UpdatePlanUseCase,
	listPlans *usecases.ListPlansUseCase,
	logger logger.Interface,
) *PlanHandler {
	return &PlanHandler{
		createPlan: createPlan,
		updatePlan: updatePlan,
		listPlans:  listPlans,
		logger:     logger,
	}
}

type createPlanRequest struct {
	Key      string         `json:"key" binding:"required,max=50"`
	Name     string         `json:"name" binding:"required,max=100"`
	Metadata map[string]any `json:"metadata"`
}

// Create creates a new plan
// POST /admin/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	plan, err := h.createPlan.Execute(c.Request.Context(), usecases.CreatePlanCommand{
		Key:      req.Key,
		Name:     req.Name,
		Metadata: req.Metadata,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, plan, "Plan created successfully")
}

type updatePlanRequest struct {
	Name     *string         `json:"name" binding:"omitempty,max=100"`
	Metadata *map[string]any `json:"metadata"`
}

// Update updates a plan's name or metadata; the key is immutable
// PUT /admin/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	planID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid plan ID"))
		return
	}

	var req updatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	plan, err := h.updatePlan.Execute(c.Request.Context(), usecases.UpdatePlanCommand{
		PlanID:   uint(planID),
		Name:     req.Name,
		Metadata: req.Metadata,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan updated successfully", plan)
}

// List lists all plans
// GET /admin/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.listPlans.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", plans)
}
