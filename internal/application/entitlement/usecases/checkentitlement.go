// Package usecases wires the pure entitlement evaluator to live subscription
// state: checks run against the tier an account effectively holds right now.
package usecases

import (
	"context"
	"fmt"

	"invitio/internal/domain/entitlement"
	"invitio/internal/domain/plan"
	"invitio/internal/domain/subscription"
	"invitio/internal/shared/biztime"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type CheckEntitlementQuery struct {
	AccountID string
	Feature   string
	// Usage is the account's current consumption of a counted feature, used
	// to answer "can one more be created". Ignored for boolean features.
	Usage int
}

type EntitlementDecision struct {
	Feature       string     `json:"feature"`
	Tier          string     `json:"tier"`
	Limit         plan.Limit `json:"limit"`
	Granted       bool       `json:"granted"`
	NeedsUpgrade  bool       `json:"needs_upgrade"`
	UpgradeTarget string     `json:"upgrade_target,omitempty"`
}

type CheckEntitlementUseCase struct {
	subscriptionRepo subscription.Repository
	evaluator        *entitlement.Evaluator
	logger           logger.Interface
}

func NewCheckEntitlementUseCase(
	subscriptionRepo subscription.Repository,
	evaluator *entitlement.Evaluator,
	logger logger.Interface,
) *CheckEntitlementUseCase {
	return &CheckEntitlementUseCase{
		subscriptionRepo: subscriptionRepo,
		evaluator:        evaluator,
		logger:           logger,
	}
}

func (uc *CheckEntitlementUseCase) Execute(ctx context.Context, q CheckEntitlementQuery) (*EntitlementDecision, error) {
	if q.AccountID == "" {
		return nil, apperrors.NewValidationError("account ID is required")
	}
	feature := plan.Feature(q.Feature)

	tier := plan.TierFree
	sub, err := uc.subscriptionRepo.GetByAccountID(ctx, q.AccountID)
	if err == nil {
		tier = sub.EffectiveTier(biztime.NowUTC())
	} else if !apperrors.IsNotFoundError(err) {
		uc.logger.Errorw("failed to get subscription", "error", err, "account_id", q.AccountID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	limit, err := uc.evaluator.LimitOf(tier, feature)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown feature", q.Feature)
	}

	granted := limit.Grants()
	if granted && !limit.IsBool() && !limit.IsUnlimited() {
		granted = q.Usage < limit.Count()
	}

	decision := &EntitlementDecision{
		Feature:      q.Feature,
		Tier:         tier.String(),
		Limit:        limit,
		Granted:      granted,
		NeedsUpgrade: !granted,
	}
	if !granted {
		if target, ok := uc.evaluator.UpgradeTargetFor(tier, feature); ok {
			decision.UpgradeTarget = target.String()
		}
	}
	return decision, nil
}
