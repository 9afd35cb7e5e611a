package usecases

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/dto"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// ListOverridesQuery narrows the override listing
type ListOverridesQuery struct {
	UserID     *uint
	FeatureKey *string
}

// ListOverridesUseCase lists per-user overrides for admin auditing
type ListOverridesUseCase struct {
	overrideRepo entitlement.OverrideRepository
	logger       logger.Interface
}

// NewListOverridesUseCase creates a new ListOverridesUseCase instance
func NewListOverridesUseCase(overrideRepo entitlement.OverrideRepository, logger logger.Interface) *ListOverridesUseCase {
	return &ListOverridesUseCase{overrideRepo: overrideRepo, logger: logger}
}

// Execute returns overrides matching the query
func (uc *ListOverridesUseCase) Execute(ctx context.Context, query ListOverridesQuery) ([]*dto.OverrideDTO, error) {
	overrides, err := uc.overrideRepo.List(ctx, entitlement.OverrideFilter{
		UserID:     query.UserID,
		FeatureKey: query.FeatureKey,
	})
	if err != nil {
		uc.logger.Errorw("failed to list overrides", "error", err)
		return nil, err
	}
	return dto.FromOverrides(overrides), nil
}
