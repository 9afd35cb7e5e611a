package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/domain/usage"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// memUsageStore is an in-memory usage.Repository whose RecordAndCheck holds
// a mutex across the count-check-insert sequence, mirroring the database
// transaction's locking guarantee.
type memUsageStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newMemUsageStore() *memUsageStore {
	return &memUsageStore{counts: make(map[string]int64)}
}

func pairKey(userID uint, featureKey string) string {
	return fmt.Sprintf("%d:%s", userID, featureKey)
}

func (s *memUsageStore) Count(_ context.Context, userID uint, featureKey string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[pairKey(userID, featureKey)], nil
}

func (s *memUsageStore) RecordAndCheck(_ context.Context, userID uint, featureKey string, limit int64) (usage.RecordResult, error) {
	if s.err != nil {
		return usage.RecordResult{}, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, featureKey)
	current := s.counts[key]
	if current >= limit {
		return usage.RecordResult{Allowed: false, CountAfter: current}, nil
	}
	s.counts[key] = current + 1
	return usage.RecordResult{Allowed: true, CountAfter: current + 1}, nil
}

func (s *memUsageStore) Reset(_ context.Context, userID uint, featureKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, pairKey(userID, featureKey))
	return nil
}

func (s *memUsageStore) Aggregate(_ context.Context, _ usage.Filter) ([]usage.PairCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]usage.PairCount, 0, len(s.counts))
	for key, count := range s.counts {
		var userID uint
		var featureKey string
		fmt.Sscanf(key, "%d:%s", &userID, &featureKey)
		out = append(out, usage.PairCount{UserID: userID, FeatureKey: featureKey, Count: count})
	}
	return out, nil
}

// memRuleRepo serves a single configured rule for every lookup.
type memRuleRepo struct {
	rule *entitlement.PlanRule
}

func (r *memRuleRepo) Upsert(context.Context, *entitlement.PlanRule) error { return nil }
func (r *memRuleRepo) GetByPlanAndFeature(context.Context, uint, string) (*entitlement.PlanRule, error) {
	return r.rule, nil
}
func (r *memRuleRepo) List(context.Context) ([]*entitlement.PlanRule, error) { return nil, nil }
func (r *memRuleRepo) Delete(context.Context, uint, string) error            { return nil }
func (r *memRuleRepo) AnyForFeature(context.Context, string) (bool, error)   { return false, nil }

type memOverrideRepo struct {
	override *entitlement.Override
}

func (r *memOverrideRepo) Upsert(context.Context, *entitlement.Override) error { return nil }
func (r *memOverrideRepo) GetByUserAndFeature(context.Context, uint, string) (*entitlement.Override, error) {
	return r.override, nil
}
func (r *memOverrideRepo) List(context.Context, entitlement.OverrideFilter) ([]*entitlement.Override, error) {
	return nil, nil
}
func (r *memOverrideRepo) Delete(context.Context, uint, string) error          { return nil }
func (r *memOverrideRepo) AnyForFeature(context.Context, string) (bool, error) { return false, nil }

func newTestGate(t *testing.T, rule *entitlement.PlanRule, store usage.Repository) *Gate {
	t.Helper()
	resolver := entitlement.NewResolver(&memOverrideRepo{}, &memRuleRepo{rule: rule})
	return NewGate(resolver, store, logger.NewLogger())
}

func countRule(t *testing.T, limit int64) *entitlement.PlanRule {
	t.Helper()
	rule, err := entitlement.NewPlanRule(2, "matching-engine", entitlement.AccessCount, limit)
	require.NoError(t, err)
	return rule
}

var testSubject = entitlement.Subject{UserID: 1, PlanID: 2}

func TestGate_CheckAccess_NotConfigured(t *testing.T) {
	gate := newTestGate(t, nil, newMemUsageStore())

	decision, err := gate.CheckAccess(context.Background(), testSubject, "matching-engine")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyNotConfigured, decision.Reason)
}

func TestGate_CheckAccess_Blocked(t *testing.T) {
	rule, err := entitlement.NewPlanRule(2, "matching-engine", entitlement.AccessBlocked, 0)
	require.NoError(t, err)
	gate := newTestGate(t, rule, newMemUsageStore())

	decision, err := gate.CheckAccess(context.Background(), testSubject, "matching-engine")
	require.NoError(t, err)

	assert.False(t, decision.Allowed)
	assert.Equal(t, DenyBlocked, decision.Reason)
}

func TestGate_CheckAccess_UnlimitedRegardlessOfUsage(t *testing.T) {
	rule, err := entitlement.NewPlanRule(2, "matching-engine", entitlement.AccessUnlimited, 0)
	require.NoError(t, err)
	store := newMemUsageStore()
	store.counts[pairKey(1, "matching-engine")] = 1_000_000
	gate := newTestGate(t, rule, store)

	decision, err := gate.CheckAccess(context.Background(), testSubject, "matching-engine")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	assert.True(t, decision.Unlimited)
	assert.Nil(t, decision.Remaining)
}

func TestGate_CheckAccess_CountReportsRemaining(t *testing.T) {
	store := newMemUsageStore()
	store.counts[pairKey(1, "matching-engine")] = 3
	gate := newTestGate(t, countRule(t, 10), store)

	decision, err := gate.CheckAccess(context.Background(), testSubject, "matching-engine")
	require.NoError(t, err)

	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.Remaining)
	assert.Equal(t, int64(7), *decision.Remaining)
}

func TestGate_Consume_ExactBoundary(t *testing.T) {
	ctx := context.Background()
	const limit = 10
	gate := newTestGate(t, countRule(t, limit), newMemUsageStore())

	for i := int64(1); i <= limit; i++ {
		result, err := gate.Consume(ctx, testSubject, "matching-engine")
		require.NoError(t, err)
		require.True(t, result.Allowed, "consume %d within limit must succeed", i)
		require.NotNil(t, result.Remaining)
		assert.Equal(t, limit-i, *result.Remaining)
	}

	result, err := gate.Consume(ctx, testSubject, "matching-engine")
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, DenyQuotaExceeded, result.Reason)
	require.NotNil(t, result.Remaining)
	assert.Equal(t, int64(0), *result.Remaining)
}

func TestGate_Consume_UnlimitedRecordsNothing(t *testing.T) {
	rule, err := entitlement.NewPlanRule(2, "matching-engine", entitlement.AccessUnlimited, 0)
	require.NoError(t, err)
	store := newMemUsageStore()
	gate := newTestGate(t, rule, store)

	result, err := gate.Consume(context.Background(), testSubject, "matching-engine")
	require.NoError(t, err)

	assert.True(t, result.Allowed)
	assert.True(t, result.Unlimited)
	assert.Nil(t, result.Remaining)
	assert.Empty(t, store.counts)
}

func TestGate_Consume_ConcurrencySafety(t *testing.T) {
	ctx := context.Background()
	const limit = 5
	const workers = 50
	gate := newTestGate(t, countRule(t, limit), newMemUsageStore())

	var wg sync.WaitGroup
	allowed := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := gate.Consume(ctx, testSubject, "matching-engine")
			assert.NoError(t, err)
			allowed <- result.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	granted := 0
	for ok := range allowed {
		if ok {
			granted++
		}
	}
	assert.Equal(t, limit, granted, "exactly limit consumes may succeed")
}

func TestGate_StorageErrorIsNotADenial(t *testing.T) {
	store := newMemUsageStore()
	store.err = fmt.Errorf("connection refused")
	gate := newTestGate(t, countRule(t, 10), store)

	_, err := gate.CheckAccess(context.Background(), testSubject, "matching-engine")
	assert.Error(t, err)

	_, err = gate.Consume(context.Background(), testSubject, "matching-engine")
	assert.Error(t, err)
}

func TestGate_ResetRestoresQuota(t *testing.T) {
	ctx := context.Background()
	store := newMemUsageStore()
	gate := newTestGate(t, countRule(t, 2), store)

	for i := 0; i < 2; i++ {
		result, err := gate.Consume(ctx, testSubject, "matching-engine")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}
	result, err := gate.Consume(ctx, testSubject, "matching-engine")
	require.NoError(t, err)
	require.False(t, result.Allowed)

	require.NoError(t, store.Reset(ctx, 1, "matching-engine"))

	decision, err := gate.CheckAccess(ctx, testSubject, "matching-engine")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.Remaining)
	assert.Equal(t, int64(2), *decision.Remaining)
}
