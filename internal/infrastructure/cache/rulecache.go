// Package cache provides Redis-backed read caches for hot-path lookups.
package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// CachedRule represents a cached plan rule lookup result. Only plan rules
// are cached; per-user overrides are always read from the database so an
// admin change takes effect on the very next access check.
type CachedRule struct {
	AccessLevel string
	LimitValue  int64
	// NotConfigured is the null marker: the (plan, feature) pair was
	// confirmed absent in the database
	NotConfigured bool
}

// PlanRuleCache defines the interface for plan rule caching
type PlanRuleCache interface {
	GetRule(ctx context.Context, planID uint, featureKey string) (*CachedRule, error)
	SetRule(ctx context.Context, planID uint, featureKey string, rule *CachedRule) error
	InvalidateRule(ctx context.Context, planID uint, featureKey string) error
	// SetNullMarker caches a short-lived marker indicating the pair has no
	// rule configured, preventing repeated DB lookups.
	SetNullMarker(ctx context.Context, planID uint, featureKey string) error
}

const (
	ruleKeyPrefix    = "entitlement:rule:"
	ruleTTLJitter    = 10 * time.Minute
	ruleNullTTL      = 2 * time.Minute
	fieldAccessLevel = "access_level"
	fieldLimitValue  = "limit_value"
	fieldNullMarker  = "_null"
)

// RedisPlanRuleCache implements PlanRuleCache using Redis Hash
type RedisPlanRuleCache struct {
	client  *redis.Client
	baseTTL time.Duration
	logger  logger.Interface
}

// NewRedisPlanRuleCache creates a new Redis-based plan rule cache
func NewRedisPlanRuleCache(client *redis.Client, baseTTL time.Duration, logger logger.Interface) *RedisPlanRuleCache {
	return &RedisPlanRuleCache{
		client:  client,
		baseTTL: baseTTL,
		logger:  logger,
	}
}

func (c *RedisPlanRuleCache) key(planID uint, featureKey string) string {
	return fmt.Sprintf("%s%d:%s", ruleKeyPrefix, planID, featureKey)
}

// GetRule retrieves a plan rule from cache; (nil, nil) on miss
func (c *RedisPlanRuleCache) GetRule(ctx context.Context, planID uint, featureKey string) (*CachedRule, error) {
	key := c.key(planID, featureKey)

	result, err := c.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get plan rule from cache: %w", err)
	}

	if len(result) == 0 {
		return nil, nil // Cache miss
	}

	if result[fieldNullMarker] == "1" {
		return &CachedRule{NotConfigured: true}, nil
	}

	rule := &CachedRule{}
	if level, ok := result[fieldAccessLevel]; ok {
		rule.AccessLevel = level
	}
	if limitStr, ok := result[fieldLimitValue]; ok {
		rule.LimitValue, _ = strconv.ParseInt(limitStr, 10, 64)
	}

	return rule, nil
}

// SetRule stores a plan rule in cache with a jittered TTL
func (c *RedisPlanRuleCache) SetRule(ctx context.Context, planID uint, featureKey string, rule *CachedRule) error {
	key := c.key(planID, featureKey)

	fields := map[string]interface{}{
		fieldAccessLevel: rule.AccessLevel,
		fieldLimitValue:  rule.LimitValue,
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, c.ttlWithJitter())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set plan rule in cache: %w", err)
	}

	c.logger.Debugw("plan rule cached",
		"plan_id", planID,
		"feature_key", featureKey,
		"access_level", rule.AccessLevel,
	)

	return nil
}

// InvalidateRule removes a plan rule from cache
func (c *RedisPlanRuleCache) InvalidateRule(ctx context.Context, planID uint, featureKey string) error {
	key := c.key(planID, featureKey)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate plan rule cache: %w", err)
	}

	c.logger.Debugw("plan rule cache invalidated",
		"plan_id", planID,
		"feature_key", featureKey,
	)

	return nil
}

// SetNullMarker stores a short-lived marker indicating the (plan, feature)
// pair has no rule configured.
func (c *RedisPlanRuleCache) SetNullMarker(ctx context.Context, planID uint, featureKey string) error {
	key := c.key(planID, featureKey)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fieldNullMarker, "1")
	pipe.Expire(ctx, key, ruleNullTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set null marker in cache: %w", err)
	}

	return nil
}

// ttlWithJitter randomizes the TTL to prevent cache stampede.
func (c *RedisPlanRuleCache) ttlWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(ruleTTLJitter)))
	return c.baseTTL + jitter
}
