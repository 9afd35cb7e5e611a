package repository

import (
	"context"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/cache"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// CachedPlanRuleRepository decorates a PlanRuleRepository with a Redis
// read-through cache on GetByPlanAndFeature, the resolver hot path. Writes
// invalidate the affected pair so subsequent reads see the new rule.
// Cache failures degrade to the database; they never fail a lookup.
type CachedPlanRuleRepository struct {
	inner  entitlement.PlanRuleRepository
	cache  cache.PlanRuleCache
	logger logger.Interface
}

// NewCachedPlanRuleRepository creates a caching decorator around a plan rule repository
func NewCachedPlanRuleRepository(inner entitlement.PlanRuleRepository, ruleCache cache.PlanRuleCache, logger logger.Interface) entitlement.PlanRuleRepository {
	return &CachedPlanRuleRepository{
		inner:  inner,
		cache:  ruleCache,
		logger: logger,
	}
}

// Upsert writes through to the database and invalidates the cached pair
func (r *CachedPlanRuleRepository) Upsert(ctx context.Context, rule *entitlement.PlanRule) error {
	if err := r.inner.Upsert(ctx, rule); err != nil {
		return err
	}
	if err := r.cache.InvalidateRule(ctx, rule.PlanID(), rule.FeatureKey()); err != nil {
		r.logger.Warnw("failed to invalidate plan rule cache after upsert",
			"plan_id", rule.PlanID(),
			"feature_key", rule.FeatureKey(),
			"error", err)
	}
	return nil
}

// GetByPlanAndFeature reads through the cache
func (r *CachedPlanRuleRepository) GetByPlanAndFeature(ctx context.Context, planID uint, featureKey string) (*entitlement.PlanRule, error) {
	cached, err := r.cache.GetRule(ctx, planID, featureKey)
	if err != nil {
		r.logger.Warnw("plan rule cache read failed, falling back to database",
			"plan_id", planID,
			"feature_key", featureKey,
			"error", err)
	} else if cached != nil {
		if cached.NotConfigured {
			return nil, nil
		}
		rule, err := entitlement.NewPlanRule(planID, featureKey, entitlement.AccessLevel(cached.AccessLevel), cached.LimitValue)
		if err == nil {
			return rule, nil
		}
		r.logger.Warnw("discarding malformed cached plan rule",
			"plan_id", planID,
			"feature_key", featureKey,
			"error", err)
	}

	rule, err := r.inner.GetByPlanAndFeature(ctx, planID, featureKey)
	if err != nil {
		return nil, err
	}

	if rule == nil {
		if err := r.cache.SetNullMarker(ctx, planID, featureKey); err != nil {
			r.logger.Warnw("failed to cache plan rule null marker",
				"plan_id", planID,
				"feature_key", featureKey,
				"error", err)
		}
		return nil, nil
	}

	entry := &cache.CachedRule{
		AccessLevel: rule.AccessLevel().String(),
		LimitValue:  rule.LimitValue(),
	}
	if err := r.cache.SetRule(ctx, planID, featureKey, entry); err != nil {
		r.logger.Warnw("failed to cache plan rule",
			"plan_id", planID,
			"feature_key", featureKey,
			"error", err)
	}

	return rule, nil
}

// List bypasses the cache; listing is an admin operation
func (r *CachedPlanRuleRepository) List(ctx context.Context) ([]*entitlement.PlanRule, error) {
	return r.inner.List(ctx)
}

// Delete removes the rule and invalidates the cached pair
func (r *CachedPlanRuleRepository) Delete(ctx context.Context, planID uint, featureKey string) error {
	if err := r.inner.Delete(ctx, planID, featureKey); err != nil {
		return err
	}
	if err := r.cache.InvalidateRule(ctx, planID, featureKey); err != nil {
		r.logger.Warnw("failed to invalidate plan rule cache after delete",
			"plan_id", planID,
			"feature_key", featureKey,
			"error", err)
	}
	return nil
}

// AnyForFeature bypasses the cache
func (r *CachedPlanRuleRepository) AnyForFeature(ctx context.Context, featureKey string) (bool, error) {
	return r.inner.AnyForFeature(ctx, featureKey)
}
