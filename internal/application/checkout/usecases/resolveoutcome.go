package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"invitio/internal/application/checkout/dto"
	"invitio/internal/application/checkout/gateway"
	subscriptionUsecases "invitio/internal/application/subscription/usecases"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/goroutine"
	"invitio/internal/shared/logger"
)

const (
	diagnosticAmountMismatch  = "amount_mismatch"
	diagnosticRedirectDecline = "redirect_declined"
)

// RedirectHint carries the untrusted query parameters the provider appends
// to the return leg of the strong-auth redirect. A hint can only
// short-circuit toward failure; success always verifies against the gateway.
type RedirectHint struct {
	Success string
	Status  string
	Error   string
}

// IndicatesFailure reports whether the hint is an unambiguous decline.
func (h RedirectHint) IndicatesFailure() bool {
	if h.Error != "" {
		return true
	}
	if strings.EqualFold(h.Success, "false") {
		return true
	}
	switch strings.ToLower(h.Status) {
	case "failure", "failed", "declined", "cancelled":
		return true
	}
	return false
}

func (h RedirectHint) detail() string {
	parts := make([]string, 0, 3)
	if h.Error != "" {
		parts = append(parts, "error="+h.Error)
	}
	if h.Status != "" {
		parts = append(parts, "status="+h.Status)
	}
	if h.Success != "" {
		parts = append(parts, "success="+h.Success)
	}
	return strings.Join(parts, " ")
}

type ResolveOutcomeCommand struct {
	IdempotencyKey string
	AccountID      string
	Hint           RedirectHint
}

// ResolveOutcomeUseCase drives one purchase attempt to its terminal outcome
// after control returns from the strong-auth redirect, or whenever the buyer
// asks for resolution. It polls the gateway a bounded number of times, checks
// the settled amount against the locally quoted one, and hands terminal
// outcomes to the subscription side exactly once.
//
// A key whose pending context is gone but whose ledger entry exists is a
// replay: the recorded result is returned and nothing is applied again.
type ResolveOutcomeUseCase struct {
	pendingStore    PendingPurchaseStore
	ledgerRepo      billing.LedgerRepository
	gateway         gateway.PaymentGateway
	applyUC         *subscriptionUsecases.ApplyPurchaseUseCase
	recordFailureUC *subscriptionUsecases.RecordFailureUseCase
	receiptSender   ReceiptSender // Optional
	tolerance       int64
	pollInterval    time.Duration
	pollMaxAttempts int
	logger          logger.Interface
}

func NewResolveOutcomeUseCase(
	pendingStore PendingPurchaseStore,
	ledgerRepo billing.LedgerRepository,
	gw gateway.PaymentGateway,
	applyUC *subscriptionUsecases.ApplyPurchaseUseCase,
	recordFailureUC *subscriptionUsecases.RecordFailureUseCase,
	tolerance int64,
	pollInterval time.Duration,
	pollMaxAttempts int,
	logger logger.Interface,
) *ResolveOutcomeUseCase {
	return &ResolveOutcomeUseCase{
		pendingStore:    pendingStore,
		ledgerRepo:      ledgerRepo,
		gateway:         gw,
		applyUC:         applyUC,
		recordFailureUC: recordFailureUC,
		tolerance:       tolerance,
		pollInterval:    pollInterval,
		pollMaxAttempts: pollMaxAttempts,
		logger:          logger,
	}
}

// SetReceiptSender sets the receipt sender (optional dependency injection)
func (uc *ResolveOutcomeUseCase) SetReceiptSender(sender ReceiptSender) {
	uc.receiptSender = sender
}

func (uc *ResolveOutcomeUseCase) Execute(ctx context.Context, cmd ResolveOutcomeCommand) (*dto.CheckoutResultDTO, error) {
	if !billing.ValidIdempotencyKey(cmd.IdempotencyKey) {
		return nil, apperrors.NewValidationError("transaction ID is malformed")
	}

	pending, err := uc.pendingStore.Get(ctx, cmd.IdempotencyKey)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return uc.replayFromLedger(ctx, cmd)
		}
		uc.logger.Errorw("failed to load pending purchase", "error", err, "idempotency_key", cmd.IdempotencyKey)
		return nil, fmt.Errorf("failed to load pending purchase: %w", err)
	}

	if pending.AccountID != cmd.AccountID {
		return nil, apperrors.NewForbiddenError("transaction belongs to another account")
	}
	if err := pending.Validate(); err != nil {
		uc.logger.Errorw("stored pending purchase is corrupt",
			"error", err, "idempotency_key", cmd.IdempotencyKey)
		return nil, apperrors.NewInternalError("stored purchase context is invalid")
	}

	// An unambiguous decline hint from the redirect leg settles the attempt
	// without polling. Success hints are never trusted: the gateway remains
	// the authority for anything that would grant entitlements.
	if cmd.Hint.IndicatesFailure() {
		uc.logger.Infow("redirect hint reports decline, skipping status poll",
			"idempotency_key", cmd.IdempotencyKey, "hint", cmd.Hint.detail())
		return uc.finalize(ctx, *pending, billing.PaymentOutcome{
			IdempotencyKey:    cmd.IdempotencyKey,
			Status:            vo.StatusFailure,
			DiagnosticCode:    diagnosticRedirectDecline,
			DiagnosticMessage: cmd.Hint.detail(),
		})
	}

	outcome, err := uc.pollForTerminal(ctx, cmd.IdempotencyKey)
	if err != nil {
		// Pending context stays: the attempt is unresolved, not failed.
		return nil, err
	}

	return uc.finalize(ctx, *pending, outcome)
}

// replayFromLedger serves resolution requests for attempts already settled
// and cleaned up.
func (uc *ResolveOutcomeUseCase) replayFromLedger(ctx context.Context, cmd ResolveOutcomeCommand) (*dto.CheckoutResultDTO, error) {
	entry, err := uc.ledgerRepo.GetByIdempotencyKey(ctx, cmd.IdempotencyKey)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("unknown transaction",
				fmt.Sprintf("no purchase attempt for %s", cmd.IdempotencyKey))
		}
		return nil, fmt.Errorf("failed to load ledger entry: %w", err)
	}
	if entry.AccountID() != cmd.AccountID {
		return nil, apperrors.NewForbiddenError("transaction belongs to another account")
	}

	uc.logger.Infow("resolution replay served from ledger",
		"idempotency_key", cmd.IdempotencyKey,
		"outcome", entry.Outcome(),
	)
	return dto.FromLedgerEntry(entry), nil
}

// pollForTerminal queries the gateway until the attempt is terminal or the
// attempt budget runs out.
func (uc *ResolveOutcomeUseCase) pollForTerminal(ctx context.Context, key string) (billing.PaymentOutcome, error) {
	var last billing.PaymentOutcome
	for attempt := 0; attempt < uc.pollMaxAttempts; attempt++ {
		if attempt > 0 {
			if err := uc.wait(ctx); err != nil {
				return billing.PaymentOutcome{}, err
			}
		}

		outcome, err := uc.gateway.QueryStatus(ctx, key)
		if err != nil {
			if apperrors.IsRetryable(err) {
				uc.logger.Warnw("status query failed, will retry",
					"idempotency_key", key, "attempt", attempt+1, "error", err)
				continue
			}
			return billing.PaymentOutcome{}, err
		}

		if outcome.IsTerminal() {
			return outcome, nil
		}
		last = outcome
		uc.logger.Debugw("payment not yet terminal",
			"idempotency_key", key, "status", outcome.Status, "attempt", attempt+1)
	}

	uc.logger.Warnw("poll budget exhausted without terminal outcome",
		"idempotency_key", key, "last_status", last.Status)
	return billing.PaymentOutcome{}, apperrors.NewUnknownOutcomeError(key)
}

func (uc *ResolveOutcomeUseCase) wait(ctx context.Context) error {
	if uc.pollInterval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(uc.pollInterval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// finalize applies a terminal outcome: success grants the tier through the
// apply-once path, everything else is recorded as a failed attempt. The
// pending context is consumed either way.
func (uc *ResolveOutcomeUseCase) finalize(ctx context.Context, pending billing.PendingPurchaseContext, outcome billing.PaymentOutcome) (*dto.CheckoutResultDTO, error) {
	if !outcome.Status.IsSuccess() {
		return uc.finalizeFailure(ctx, pending, outcome)
	}

	if !outcome.Amount.WithinTolerance(pending.QuotedAmount(), uc.tolerance) {
		return nil, uc.finalizeMismatch(ctx, pending, outcome)
	}

	err := uc.applyUC.Execute(ctx, subscriptionUsecases.ApplyPurchaseCommand{
		Pending: pending,
		Outcome: outcome,
	})
	if err != nil {
		if apperrors.IsConflictError(err) {
			uc.deletePending(ctx, pending.IdempotencyKey)
			return uc.replayFromLedger(ctx, ResolveOutcomeCommand{
				IdempotencyKey: pending.IdempotencyKey,
				AccountID:      pending.AccountID,
			})
		}
		// Keep the pending context so resolution can be retried.
		return nil, err
	}

	uc.deletePending(ctx, pending.IdempotencyKey)
	uc.sendReceipt(pending, outcome)

	return dto.FromPendingAndOutcome(pending, outcome), nil
}

func (uc *ResolveOutcomeUseCase) finalizeFailure(ctx context.Context, pending billing.PendingPurchaseContext, outcome billing.PaymentOutcome) (*dto.CheckoutResultDTO, error) {
	err := uc.recordFailureUC.Execute(ctx, subscriptionUsecases.RecordFailureCommand{
		Pending: pending,
		Outcome: outcome,
	})
	if err != nil {
		return nil, err
	}
	uc.deletePending(ctx, pending.IdempotencyKey)
	return dto.FromPendingAndOutcome(pending, outcome), nil
}

// finalizeMismatch handles a disagreement between the quoted amount and what
// the gateway settled. Entitlements are never granted; the attempt is
// recorded for manual review.
func (uc *ResolveOutcomeUseCase) finalizeMismatch(ctx context.Context, pending billing.PendingPurchaseContext, outcome billing.PaymentOutcome) error {
	details := fmt.Sprintf("quoted %d %s, gateway settled %d %s",
		pending.QuotedAmountMinor, pending.Currency,
		outcome.Amount.AmountMinor(), outcome.Amount.Currency())

	uc.logger.Errorw("settled amount does not match quote",
		"idempotency_key", pending.IdempotencyKey,
		"account_id", pending.AccountID,
		"quoted_minor", pending.QuotedAmountMinor,
		"settled_minor", outcome.Amount.AmountMinor(),
	)

	mismatch := billing.PaymentOutcome{
		IdempotencyKey:    pending.IdempotencyKey,
		Status:            vo.StatusFailure,
		ProviderRef:       outcome.ProviderRef,
		Amount:            outcome.Amount,
		DiagnosticCode:    diagnosticAmountMismatch,
		DiagnosticMessage: details,
	}
	if err := uc.recordFailureUC.Execute(ctx, subscriptionUsecases.RecordFailureCommand{
		Pending: pending,
		Outcome: mismatch,
	}); err != nil {
		uc.logger.Errorw("failed to record amount mismatch",
			"error", err, "idempotency_key", pending.IdempotencyKey)
	}
	uc.deletePending(ctx, pending.IdempotencyKey)

	return apperrors.NewAmountMismatchError(details)
}

func (uc *ResolveOutcomeUseCase) deletePending(ctx context.Context, key string) {
	if err := uc.pendingStore.Delete(ctx, key); err != nil {
		uc.logger.Warnw("failed to delete pending purchase", "error", err, "idempotency_key", key)
	}
}

func (uc *ResolveOutcomeUseCase) sendReceipt(pending billing.PendingPurchaseContext, outcome billing.PaymentOutcome) {
	if uc.receiptSender == nil {
		return
	}
	email := pending.CustomerEmail
	if email == "" {
		return
	}
	goroutine.SafeGo(uc.logger, "checkout-send-receipt", func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		data := ReceiptData{
			TransactionID: pending.IdempotencyKey,
			Tier:          pending.Tier.String(),
			Period:        pending.Period.String(),
			AmountMinor:   outcome.Amount.AmountMinor(),
			Currency:      outcome.Amount.Currency(),
		}
		if err := uc.receiptSender.SendReceipt(sendCtx, email, data); err != nil {
			uc.logger.Warnw("failed to send receipt",
				"error", err, "idempotency_key", pending.IdempotencyKey)
		}
	})
}
