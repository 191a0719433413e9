package usecases

import (
	"context"
	"fmt"

	"invitio/internal/application/checkout/dto"
	"invitio/internal/application/checkout/gateway"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	"invitio/internal/shared/biztime"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type SubmitPurchaseCommand struct {
	AccountID     string
	Tier          string
	Period        string
	CustomerEmail string
	CustomerName  string
	Address       billing.BillingAddress
	Card          billing.CardDetails
	// IdempotencyKey is set only when retrying an attempt that timed out;
	// a fresh submission leaves it empty and gets a new key.
	IdempotencyKey string
}

// SubmitPurchaseUseCase starts one purchase attempt. The price is quoted
// server-side from the plan registry, the pending context is persisted before
// the gateway round trip, and immediate terminal answers are finalized in
// line. Strong-auth answers hand the opaque redirect payload back to the
// caller; resolution then happens through ResolveOutcomeUseCase.
type SubmitPurchaseUseCase struct {
	registry     *plan.Registry
	ledgerRepo   billing.LedgerRepository
	pendingStore PendingPurchaseStore
	gateway      gateway.PaymentGateway
	resolver     *ResolveOutcomeUseCase
	logger       logger.Interface
}

func NewSubmitPurchaseUseCase(
	registry *plan.Registry,
	ledgerRepo billing.LedgerRepository,
	pendingStore PendingPurchaseStore,
	gw gateway.PaymentGateway,
	resolver *ResolveOutcomeUseCase,
	logger logger.Interface,
) *SubmitPurchaseUseCase {
	return &SubmitPurchaseUseCase{
		registry:     registry,
		ledgerRepo:   ledgerRepo,
		pendingStore: pendingStore,
		gateway:      gw,
		resolver:     resolver,
		logger:       logger,
	}
}

func (uc *SubmitPurchaseUseCase) Execute(ctx context.Context, cmd SubmitPurchaseCommand) (*dto.CheckoutResultDTO, error) {
	tier, err := plan.ParseTier(cmd.Tier)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown tier", cmd.Tier)
	}
	period := vo.BillingPeriod(cmd.Period)
	if !period.IsValid() {
		return nil, apperrors.NewValidationError("unknown billing period", cmd.Period)
	}

	amount, err := uc.quote(tier, period)
	if err != nil {
		return nil, err
	}

	key := cmd.IdempotencyKey
	if key == "" {
		key = billing.NewIdempotencyKey()
	} else if !billing.ValidIdempotencyKey(key) {
		return nil, apperrors.NewValidationError("transaction ID is malformed")
	}

	req := billing.PaymentRequest{
		IdempotencyKey: key,
		AccountID:      cmd.AccountID,
		Tier:           tier,
		Period:         period,
		Amount:         amount,
		CustomerEmail:  cmd.CustomerEmail,
		CustomerName:   cmd.CustomerName,
		Address:        cmd.Address,
		Card:           cmd.Card,
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid purchase request", err.Error())
	}

	if err := uc.guardDuplicate(ctx, cmd, key); err != nil {
		return nil, err
	}

	// Persist the pending context before the gateway call so a crash or
	// redirect between the two never loses the attempt.
	pending := billing.NewPendingPurchaseContext(req, biztime.NowUTC())
	if err := uc.pendingStore.Put(ctx, pending); err != nil {
		uc.logger.Errorw("failed to persist pending purchase", "error", err, "idempotency_key", key)
		return nil, fmt.Errorf("failed to persist pending purchase: %w", err)
	}

	outcome, err := uc.gateway.Submit(ctx, req)
	if err != nil {
		// The pending context stays put: on a timeout the same key retries,
		// and an unresolved attempt is reconciled via the resolver.
		uc.logger.Errorw("gateway submit failed",
			"error", err,
			"idempotency_key", key,
			"account_id", cmd.AccountID,
			"retryable", apperrors.IsRetryable(err),
		)
		return nil, err
	}

	uc.logger.Infow("purchase submitted",
		"idempotency_key", key,
		"account_id", cmd.AccountID,
		"tier", tier,
		"period", period,
		"amount_minor", amount.AmountMinor(),
		"status", outcome.Status,
	)

	if outcome.IsTerminal() {
		return uc.resolver.finalize(ctx, pending, outcome)
	}

	// Waiting on strong auth or still pending: the caller comes back through
	// the resolution endpoint.
	return dto.FromPendingAndOutcome(pending, outcome), nil
}

// quote resolves the authoritative price for a tier and period. Client
// amounts are never trusted.
func (uc *SubmitPurchaseUseCase) quote(tier plan.Tier, period vo.BillingPeriod) (vo.Money, error) {
	def := uc.registry.DefinitionOf(tier)
	if def.IsFree() {
		return vo.Money{}, apperrors.NewValidationError("free tier cannot be purchased")
	}

	switch period {
	case vo.PeriodMonthly:
		p := def.MonthlyPrice()
		return vo.NewMoney(p.AmountMinor, p.Currency), nil
	case vo.PeriodYearly:
		if p := def.YearlyPrice(); p != nil {
			return vo.NewMoney(p.AmountMinor, p.Currency), nil
		}
	}
	return vo.Money{}, apperrors.NewValidationError("tier has no price for period",
		fmt.Sprintf("%s/%s", tier, period))
}

// guardDuplicate rejects a key that is already in flight or already settled.
// An explicit retry may reuse its own timed-out pending context.
func (uc *SubmitPurchaseUseCase) guardDuplicate(ctx context.Context, cmd SubmitPurchaseCommand, key string) error {
	retry := cmd.IdempotencyKey != ""
	if pending, err := uc.pendingStore.Get(ctx, key); err == nil {
		if !retry || pending.AccountID != cmd.AccountID {
			return apperrors.NewDuplicateSubmissionError(key)
		}
	} else if !apperrors.IsNotFoundError(err) {
		return fmt.Errorf("failed to check pending purchases: %w", err)
	}

	if _, err := uc.ledgerRepo.GetByIdempotencyKey(ctx, key); err == nil {
		return apperrors.NewDuplicateSubmissionError(key)
	} else if !apperrors.IsNotFoundError(err) {
		return fmt.Errorf("failed to check payment ledger: %w", err)
	}
	return nil
}
