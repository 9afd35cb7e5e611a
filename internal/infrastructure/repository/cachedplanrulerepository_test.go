package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/infrastructure/cache"
)

type fakeRuleCache struct {
	entries map[string]*cache.CachedRule
	err     error

	gets        int
	sets        int
	nullMarkers int
	invalidates int
}

func newFakeRuleCache() *fakeRuleCache {
	return &fakeRuleCache{entries: make(map[string]*cache.CachedRule)}
}

func (f *fakeRuleCache) cacheKey(planID uint, featureKey string) string {
	return fmt.Sprintf("%d:%s", planID, featureKey)
}

func (f *fakeRuleCache) GetRule(_ context.Context, planID uint, featureKey string) (*cache.CachedRule, error) {
	f.gets++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[f.cacheKey(planID, featureKey)], nil
}

func (f *fakeRuleCache) SetRule(_ context.Context, planID uint, featureKey string, rule *cache.CachedRule) error {
	f.sets++
	if f.err != nil {
		return f.err
	}
	f.entries[f.cacheKey(planID, featureKey)] = rule
	return nil
}

func (f *fakeRuleCache) InvalidateRule(_ context.Context, planID uint, featureKey string) error {
	f.invalidates++
	if f.err != nil {
		return f.err
	}
	delete(f.entries, f.cacheKey(planID, featureKey))
	return nil
}

func (f *fakeRuleCache) SetNullMarker(_ context.Context, planID uint, featureKey string) error {
	f.nullMarkers++
	if f.err != nil {
		return f.err
	}
	f.entries[f.cacheKey(planID, featureKey)] = &cache.CachedRule{NotConfigured: true}
	return nil
}

func TestCachedPlanRuleRepository_ReadThrough(t *testing.T) {
	ctx := context.Background()
	ruleCache := newFakeRuleCache()
	inner := NewPlanRuleRepository(setupTestDB(t), testLogger())
	repo := NewCachedPlanRuleRepository(inner, ruleCache, testLogger())

	require.NoError(t, inner.Upsert(ctx, mustRule(t, 1, "export", entitlement.AccessCount, 10)))

	// First read misses the cache and populates it
	got, err := repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, ruleCache.sets)

	// Second read is served from the cache
	got, err = repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entitlement.AccessCount, got.AccessLevel())
	assert.Equal(t, int64(10), got.LimitValue())
	assert.Equal(t, 1, ruleCache.sets, "cache hit must not re-populate")
}

func TestCachedPlanRuleRepository_NullMarker(t *testing.T) {
	ctx := context.Background()
	ruleCache := newFakeRuleCache()
	inner := NewPlanRuleRepository(setupTestDB(t), testLogger())
	repo := NewCachedPlanRuleRepository(inner, ruleCache, testLogger())

	got, err := repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, ruleCache.nullMarkers)

	// Marker short-circuits the next lookup
	got, err = repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, ruleCache.nullMarkers)
}

func TestCachedPlanRuleRepository_WritesInvalidate(t *testing.T) {
	ctx := context.Background()
	ruleCache := newFakeRuleCache()
	inner := NewPlanRuleRepository(setupTestDB(t), testLogger())
	repo := NewCachedPlanRuleRepository(inner, ruleCache, testLogger())

	require.NoError(t, repo.Upsert(ctx, mustRule(t, 1, "export", entitlement.AccessCount, 10)))
	assert.Equal(t, 1, ruleCache.invalidates)

	_, err := repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)

	// Upsert replaces the rule and drops the stale cache entry
	require.NoError(t, repo.Upsert(ctx, mustRule(t, 1, "export", entitlement.AccessBlocked, 0)))
	assert.Empty(t, ruleCache.entries)

	got, err := repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entitlement.AccessBlocked, got.AccessLevel())

	require.NoError(t, repo.Delete(ctx, 1, "export"))
	assert.Empty(t, ruleCache.entries)
}

func TestCachedPlanRuleRepository_CacheFailureFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	ruleCache := newFakeRuleCache()
	ruleCache.err = errors.New("connection refused")
	inner := NewPlanRuleRepository(setupTestDB(t), testLogger())
	repo := NewCachedPlanRuleRepository(inner, ruleCache, testLogger())

	require.NoError(t, repo.Upsert(ctx, mustRule(t, 1, "export", entitlement.AccessUnlimited, 0)))

	got, err := repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entitlement.AccessUnlimited, got.AccessLevel())
}

func TestCachedPlanRuleRepository_MalformedEntryDiscarded(t *testing.T) {
	ctx := context.Background()
	ruleCache := newFakeRuleCache()
	inner := NewPlanRuleRepository(setupTestDB(t), testLogger())
	repo := NewCachedPlanRuleRepository(inner, ruleCache, testLogger())

	require.NoError(t, inner.Upsert(ctx, mustRule(t, 1, "export", entitlement.AccessCount, 10)))
	ruleCache.entries[ruleCache.cacheKey(1, "export")] = &cache.CachedRule{AccessLevel: "garbage"}

	got, err := repo.GetByPlanAndFeature(ctx, 1, "export")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entitlement.AccessCount, got.AccessLevel())
}
