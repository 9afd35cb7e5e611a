package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unimatch-app/unimatch/internal/application/entitlement/services"
	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/domain/usage"
	"github.com/unimatch-app/unimatch/internal/shared/constants"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

type stubOverrideRepo struct {
	override *entitlement.Override
}

func (s *stubOverrideRepo) Upsert(context.Context, *entitlement.Override) error { return nil }
func (s *stubOverrideRepo) GetByUserAndFeature(context.Context, uint, string) (*entitlement.Override, error) {
	return s.override, nil
}
func (s *stubOverrideRepo) List(context.Context, entitlement.OverrideFilter) ([]*entitlement.Override, error) {
	return nil, nil
}
func (s *stubOverrideRepo) Delete(context.Context, uint, string) error { return nil }
func (s *stubOverrideRepo) AnyForFeature(context.Context, string) (bool, error) {
	return s.override != nil, nil
}

type stubRuleRepo struct {
	rule *entitlement.PlanRule
}

func (s *stubRuleRepo) Upsert(context.Context, *entitlement.PlanRule) error { return nil }
func (s *stubRuleRepo) GetByPlanAndFeature(context.Context, uint, string) (*entitlement.PlanRule, error) {
	return s.rule, nil
}
func (s *stubRuleRepo) List(context.Context) ([]*entitlement.PlanRule, error) { return nil, nil }
func (s *stubRuleRepo) Delete(context.Context, uint, string) error            { return nil }
func (s *stubRuleRepo) AnyForFeature(context.Context, string) (bool, error) {
	return s.rule != nil, nil
}

type stubUsageStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newStubUsageStore() *stubUsageStore {
	return &stubUsageStore{counts: make(map[string]int64)}
}

func (s *stubUsageStore) Count(_ context.Context, userID uint, featureKey string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[usagePairKey(userID, featureKey)], nil
}

func (s *stubUsageStore) RecordAndCheck(_ context.Context, userID uint, featureKey string, limit int64) (usage.RecordResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := usagePairKey(userID, featureKey)
	current := s.counts[key]
	if current >= limit {
		return usage.RecordResult{Allowed: false, CountAfter: current}, nil
	}
	s.counts[key] = current + 1
	return usage.RecordResult{Allowed: true, CountAfter: current + 1}, nil
}

func (s *stubUsageStore) Reset(_ context.Context, userID uint, featureKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counts, usagePairKey(userID, featureKey))
	return nil
}

func (s *stubUsageStore) Aggregate(context.Context, usage.Filter) ([]usage.PairCount, error) {
	return nil, nil
}

func usagePairKey(userID uint, featureKey string) string {
	return fmt.Sprintf("%d:%s", userID, featureKey)
}

func gateRouter(t *testing.T, rule *entitlement.PlanRule, store *stubUsageStore, consume bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resolver := entitlement.NewResolver(&stubOverrideRepo{}, &stubRuleRepo{rule: rule})
	gate := services.NewGate(resolver, store, logger.NewLogger())
	gateMiddleware := NewFeatureGateMiddleware(gate, logger.NewLogger())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, uint(1))
		c.Set(constants.ContextKeyPlanID, uint(10))
	})
	handler := func(c *gin.Context) { c.Status(http.StatusOK) }
	if consume {
		router.GET("/gated", gateMiddleware.RequireFeature("export"), handler)
	} else {
		router.GET("/gated", gateMiddleware.CheckFeature("export"), handler)
	}
	return router
}

func doGated(router *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireFeature_ConsumesUntilQuotaExhausted(t *testing.T) {
	rule, err := entitlement.NewPlanRule(10, "export", entitlement.AccessCount, 2)
	require.NoError(t, err)
	store := newStubUsageStore()
	router := gateRouter(t, rule, store, true)

	assert.Equal(t, http.StatusOK, doGated(router).Code)
	assert.Equal(t, http.StatusOK, doGated(router).Code)

	rec := doGated(router)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota_exceeded")
}

func TestRequireFeature_BlockedRule(t *testing.T) {
	rule, err := entitlement.NewPlanRule(10, "export", entitlement.AccessBlocked, 0)
	require.NoError(t, err)
	router := gateRouter(t, rule, newStubUsageStore(), true)

	rec := doGated(router)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "blocked")
}

func TestRequireFeature_NotConfigured(t *testing.T) {
	router := gateRouter(t, nil, newStubUsageStore(), true)

	rec := doGated(router)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_configured")
}

func TestCheckFeature_DoesNotConsume(t *testing.T) {
	rule, err := entitlement.NewPlanRule(10, "export", entitlement.AccessCount, 2)
	require.NoError(t, err)
	store := newStubUsageStore()
	router := gateRouter(t, rule, store, false)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doGated(router).Code)
	}
	assert.Empty(t, store.counts, "read-only check must record nothing")
}

func TestFeatureGate_MissingSubjectIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)

	resolver := entitlement.NewResolver(&stubOverrideRepo{}, &stubRuleRepo{})
	gate := services.NewGate(resolver, newStubUsageStore(), logger.NewLogger())
	gateMiddleware := NewFeatureGateMiddleware(gate, logger.NewLogger())

	router := gin.New()
	router.GET("/gated", gateMiddleware.RequireFeature("export"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
