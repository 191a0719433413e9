package usecases

import (
	"context"
	"fmt"

	"invitio/internal/domain/billing"
	"invitio/internal/domain/subscription"
	"invitio/internal/shared/biztime"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type ApplyPurchaseCommand struct {
	Pending billing.PendingPurchaseContext
	Outcome billing.PaymentOutcome
}

// ApplyPurchaseUseCase records a settled payment in the ledger and grants the
// purchased tier, atomically. The ledger's unique idempotency key makes the
// whole operation apply-once: a concurrent or repeated apply hits the key
// conflict before any subscription change and surfaces it to the caller,
// which degrades to the no-op replay path.
type ApplyPurchaseUseCase struct {
	subscriptionRepo subscription.Repository
	ledgerRepo       billing.LedgerRepository
	tx               TransactionRunner
	logger           logger.Interface
}

func NewApplyPurchaseUseCase(
	subscriptionRepo subscription.Repository,
	ledgerRepo billing.LedgerRepository,
	tx TransactionRunner,
	logger logger.Interface,
) *ApplyPurchaseUseCase {
	return &ApplyPurchaseUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		tx:               tx,
		logger:           logger,
	}
}

func (uc *ApplyPurchaseUseCase) Execute(ctx context.Context, cmd ApplyPurchaseCommand) error {
	if !cmd.Outcome.Status.IsSuccess() {
		return apperrors.NewValidationError("only settled payments grant entitlements",
			fmt.Sprintf("outcome status is %s", cmd.Outcome.Status))
	}

	entry, err := billing.NewLedgerEntry(
		cmd.Pending.IdempotencyKey,
		cmd.Pending.AccountID,
		cmd.Outcome.ProviderRef,
		cmd.Outcome.Amount,
		cmd.Outcome.Status,
		cmd.Pending.Tier,
		cmd.Pending.Period,
		cmd.Outcome.DiagnosticCode,
	)
	if err != nil {
		return apperrors.NewValidationError("invalid ledger entry", err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Ledger first: the unique key constraint is the apply-once guard.
		if err := uc.ledgerRepo.Create(txCtx, entry); err != nil {
			return err
		}

		now := biztime.NowUTC()
		created := false
		sub, err := uc.subscriptionRepo.GetByAccountID(txCtx, cmd.Pending.AccountID)
		if err != nil {
			if !apperrors.IsNotFoundError(err) {
				return fmt.Errorf("failed to get subscription: %w", err)
			}
			sub, err = subscription.NewSubscription(cmd.Pending.AccountID, now)
			if err != nil {
				return err
			}
			created = true
		}

		// Settle an elapsed cancelled period before deciding the transition.
		sub.ExpireIfDue(now)

		if sub.Status() == subscription.StatusActive {
			err = sub.Upgrade(cmd.Pending.Tier, cmd.Outcome.ProviderRef, now)
		} else {
			err = sub.ActivatePurchase(cmd.Pending.Tier, cmd.Pending.Period, cmd.Outcome.ProviderRef, now)
		}
		if err != nil {
			return err
		}

		if created {
			return uc.subscriptionRepo.Create(txCtx, sub)
		}
		return uc.subscriptionRepo.Update(txCtx, sub)
	})
	if err != nil {
		if apperrors.IsConflictError(err) {
			uc.logger.Infow("purchase already applied, skipping",
				"idempotency_key", cmd.Pending.IdempotencyKey,
				"account_id", cmd.Pending.AccountID,
			)
			return err
		}
		uc.logger.Errorw("failed to apply purchase",
			"error", err,
			"idempotency_key", cmd.Pending.IdempotencyKey,
			"account_id", cmd.Pending.AccountID,
		)
		return err
	}

	uc.logger.Infow("purchase applied",
		"idempotency_key", cmd.Pending.IdempotencyKey,
		"account_id", cmd.Pending.AccountID,
		"tier", cmd.Pending.Tier,
		"period", cmd.Pending.Period,
		"amount_minor", cmd.Outcome.Amount.AmountMinor(),
	)
	return nil
}
