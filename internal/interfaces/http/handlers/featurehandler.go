package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/usecases"
	"github.com/unimatch-app/unimatch/internal/shared/errors"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
	"github.com/unimatch-app/unimatch/internal/shared/utils"
)

// FeatureHandler handles feature administration HTTP requests
type FeatureHandler struct {
	createFeature *usecases.CreateFeatureUseCase
	updateFeature *usecases.UpdateFeatureUseCase
	listFeatures  *usecases.ListFeaturesUseCase
	logger        logger.Interface
}

// NewFeatureHandler creates a new feature handler
func NewFeatureHandler(
	createFeature *usecases.CreateFeatureUseCase,
	updateFeature *usecases.UpdateFeatureUseCase,
	listFeatures *usecases.ListFeaturesUseCase,
	logger logger.Interface,
) *FeatureHandler {
	return &FeatureHandler{
		createFeature: createFeature,
		updateFeature: updateFeature,
		listFeatures:  listFeatures,
		logger:        logger,
	}
}

type createFeatureRequest struct {
	Key  string `json:"key" binding:"required,featurekey"`
	Name string `json:"name" binding:"required,max=100"`
}

// Create registers a new gateable feature
// POST /admin/features
func (h *FeatureHandler) Create(c *gin.Context) {
	var req createFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	feature, err := h.createFeature.Execute(c.Request.Context(), usecases.CreateFeatureCommand{
		Key:  req.Key,
		Name: req.Name,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, feature, "Feature created successfully")
}

type updateFeatureRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// Update renames a feature; the key is immutable
// PUT /admin/features/:key
func (h *FeatureHandler) Update(c *gin.Context) {
	var req updateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	feature, err := h.updateFeature.Execute(c.Request.Context(), usecases.UpdateFeatureCommand{
		Key:  c.Param("key"),
		Name: req.Name,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Feature updated successfully", feature)
}

// List lists all features
// GET /admin/features
func (h *FeatureHandler) List(c *gin.Context) {
	features, err := h.listFeatures.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", features)
}
