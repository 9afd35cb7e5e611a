package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/unimatch-app/unimatch/internal/domain/entitlement"
	"github.com/unimatch-app/unimatch/internal/domain/usage"
	"github.com/unimatch-app/unimatch/internal/shared/logger"
)

// Gate decides whether a subject may perform a feature right now and records
// consumption so future decisions stay consistent. CheckAccess is a cheap
// read; Consume is the atomic commit point. Callers gating expensive work
// should CheckAccess first and must not deliver the gated result until
// Consume succeeds.
type Gate struct {
	resolver  *entitlement.Resolver
	usageRepo usage.Repository
	logger    logger.Interface
}

// NewGate creates a new enforcement gate
func NewGate(resolver *entitlement.Resolver, usageRepo usage.Repository, logger logger.Interface) *Gate {
	return &Gate{
		resolver:  resolver,
		usageRepo: usageRepo,
		logger:    logger,
	}
}

// CheckAccess resolves the effective rule and current usage and returns a
// structured decision without recording anything. It takes no locks and may
// be called freely on every request.
func (g *Gate) CheckAccess(ctx context.Context, subject entitlement.Subject, featureKey string) (Decision, error) {
	rule, err := g.resolver.Resolve(ctx, subject, featureKey)
	if err != nil {
		if errors.Is(err, entitlement.ErrNotConfigured) {
			return deniedDecision(DenyNotConfigured), nil
		}
		return Decision{}, fmt.Errorf("failed to resolve entitlement: %w", err)
	}

	switch {
	case rule.IsBlocked():
		return deniedDecision(DenyBlocked), nil

	case rule.IsUnlimited():
		return allowedDecision(true, nil), nil

	default: // count
		used, err := g.usageRepo.Count(ctx, subject.UserID, featureKey)
		if err != nil {
			g.logger.Errorw("failed to count usage",
				"user_id", subject.UserID,
				"feature_key", featureKey,
				"error", err,
			)
			return Decision{}, fmt.Errorf("failed to count usage: %w", err)
		}
		if used >= rule.Limit() {
			return deniedDecision(DenyQuotaExceeded), nil
		}
		remaining := rule.Limit() - used
		return allowedDecision(false, &remaining), nil
	}
}

// Consume commits one unit of consumption. For unlimited rules it is a
// no-op success; for count rules it delegates to the store's atomic
// record-and-check, so a race lost against concurrent consumers comes back
// as an authoritative denial even if CheckAccess said allowed moments ago.
func (g *Gate) Consume(ctx context.Context, subject entitlement.Subject, featureKey string) (ConsumeResult, error) {
	rule, err := g.resolver.Resolve(ctx, subject, featureKey)
	if err != nil {
		if errors.Is(err, entitlement.ErrNotConfigured) {
			return ConsumeResult{Reason: DenyNotConfigured}, nil
		}
		return ConsumeResult{}, fmt.Errorf("failed to resolve entitlement: %w", err)
	}

	switch {
	case rule.IsBlocked():
		return ConsumeResult{Reason: DenyBlocked}, nil

	case rule.IsUnlimited():
		return ConsumeResult{Allowed: true, Unlimited: true}, nil

	default: // count
		res, err := g.usageRepo.RecordAndCheck(ctx, subject.UserID, featureKey, rule.Limit())
		if err != nil {
			g.logger.Errorw("failed to record usage",
				"user_id", subject.UserID,
				"feature_key", featureKey,
				"limit", rule.Limit(),
				"error", err,
			)
			return ConsumeResult{}, fmt.Errorf("failed to record usage: %w", err)
		}
		if !res.Allowed {
			zero := int64(0)
			return ConsumeResult{Reason: DenyQuotaExceeded, Remaining: &zero}, nil
		}
		remaining := rule.Limit() - res.CountAfter
		if remaining < 0 {
			remaining = 0
		}
		g.logger.Debugw("usage recorded",
			"user_id", subject.UserID,
			"feature_key", featureKey,
			"count_after", res.CountAfter,
			"remaining", remaining,
		)
		return ConsumeResult{Allowed: true, Remaining: &remaining}, nil
	}
}
