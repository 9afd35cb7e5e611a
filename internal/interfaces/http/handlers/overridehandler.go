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

// OverrideHandler handles per-user override administration HTTP requests
type OverrideHandler struct {
	upsertOverride *usecases.UpsertOverrideUseCase
	listOverrides  *usecases.ListOverridesUseCase
	deleteOverride *usecases.DeleteOverrideUseCase
	logger         logger.Interface
}

// NewOverrideHandler creates a new override handler
func NewOverrideHandler(
	upsertOverride *usecases.UpsertOverrideUseCase,
	listOverrides *usecases.ListOverridesUseCase,
	deleteOverride *usecases.DeleteOverrideUseCase,
	logger logger.Interface,
) *OverrideHandler {
	return &OverrideHandler{
		upsertOverride: upsertOverride,
		listOverrides:  listOverrides,
		deleteOverride: deleteOverride,
		logger:         logger,
	}
}

type upsertOverrideRequest struct {
	UserID      uint   `json:"user_id" binding:"required"`
	FeatureKey  string `json:"feature_key" binding:"required,featurekey"`
	AccessLevel string `json:"access_level" binding:"required,oneof=unlimited count blocked"`
	LimitValue  int64  `json:"limit_value" binding:"omitempty,gt=0"`
}

// Upsert grants or adjusts a per-user exception
// POST /admin/overrides
func (h *OverrideHandler) Upsert(c *gin.Context) {
	var req upsertOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	override, err := h.upsertOverride.Execute(c.Request.Context(), usecases.UpsertOverrideCommand{
		UserID:      req.UserID,
		FeatureKey:  req.FeatureKey,
		AccessLevel: req.AccessLevel,
		LimitValue:  req.LimitValue,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Override saved successfully", override)
}

// List lists overrides, optionally filtered by user or feature
// GET /admin/overrides?user_id=&feature_key=
func (h *OverrideHandler) List(c *gin.Context) {
	query := usecases.ListOverridesQuery{}

	if raw := c.Query("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid user_id filter"))
			return
		}
		uid := uint(userID)
		query.UserID = &uid
	}
	if raw := c.Query("feature_key"); raw != "" {
		query.FeatureKey = &raw
	}

	overrides, err := h.listOverrides.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", overrides)
}

type deleteOverrideRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	FeatureKey string `json:"feature_key" binding:"required"`
}

// Delete revokes a per-user exception; the user reverts to their plan rule
// DELETE /admin/overrides
func (h *OverrideHandler) Delete(c *gin.Context) {
	var req deleteOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	err := h.deleteOverride.Execute(c.Request.Context(), usecases.DeleteOverrideCommand{
		UserID:     req.UserID,
		FeatureKey: req.FeatureKey,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Override deleted successfully", nil)
}
