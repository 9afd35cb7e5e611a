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

// UsageHandler handles usage administration HTTP requests
type UsageHandler struct {
	resetUsage  *usecases.ResetUsageUseCase
	usageReport *usecases.UsageReportUseCase
	logger      logger.Interface
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(
	resetUsage *usecases.ResetUsageUseCase,
	usageReport *usecases.UsageReportUseCase,
	logger logger.Interface,
) *UsageHandler {
	return &UsageHandler{
		resetUsage:  resetUsage,
		usageReport: usageReport,
		logger:      logger,
	}
}

type resetUsageRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	FeatureKey string `json:"feature_key" binding:"required"`
}

// Reset deletes all usage events for a (user, feature) pair. Idempotent.
// POST /admin/usage/reset
func (h *UsageHandler) Reset(c *gin.Context) {
	var req resetUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	err := h.resetUsage.Execute(c.Request.Context(), usecases.ResetUsageCommand{
		UserID:     req.UserID,
		FeatureKey: req.FeatureKey,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Usage reset successfully", nil)
}

// Report returns per-pair usage with the effective rule and remaining quota
// GET /admin/usage?user_id=&feature_key=
func (h *UsageHandler) Report(c *gin.Context) {
	query := usecases.UsageReportQuery{}

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

	rows, err := h.usageReport.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", rows)
}
