package usecases

import (
	"context"

	"invitio/internal/domain/billing"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type RecordFailureCommand struct {
	Pending billing.PendingPurchaseContext
	Outcome billing.PaymentOutcome
}

// RecordFailureUseCase writes a terminal non-success outcome to the ledger.
// The subscription stays untouched. A duplicate key means a racing resolver
// already recorded this attempt, which is a no-op here.
type RecordFailureUseCase struct {
	ledgerRepo billing.LedgerRepository
	logger     logger.Interface
}

func NewRecordFailureUseCase(ledgerRepo billing.LedgerRepository, logger logger.Interface) *RecordFailureUseCase {
	return &RecordFailureUseCase{ledgerRepo: ledgerRepo, logger: logger}
}

func (uc *RecordFailureUseCase) Execute(ctx context.Context, cmd RecordFailureCommand) error {
	if cmd.Outcome.Status.IsSuccess() || !cmd.Outcome.Status.IsTerminal() {
		return apperrors.NewValidationError("outcome is not a terminal failure",
			cmd.Outcome.Status.String())
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

	if err := uc.ledgerRepo.Create(ctx, entry); err != nil {
		if apperrors.IsConflictError(err) {
			uc.logger.Infow("failure already recorded, skipping",
				"idempotency_key", cmd.Pending.IdempotencyKey)
			return nil
		}
		uc.logger.Errorw("failed to record payment failure",
			"error", err,
			"idempotency_key", cmd.Pending.IdempotencyKey,
		)
		return err
	}

	uc.logger.Infow("payment failure recorded",
		"idempotency_key", cmd.Pending.IdempotencyKey,
		"account_id", cmd.Pending.AccountID,
		"status", cmd.Outcome.Status,
		"diagnostic_code", cmd.Outcome.DiagnosticCode,
	)
	return nil
}
