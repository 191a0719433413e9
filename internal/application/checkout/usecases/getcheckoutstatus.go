package usecases

import (
	"context"
	"fmt"

	"invitio/internal/application/checkout/dto"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type GetCheckoutStatusQuery struct {
	IdempotencyKey string
	AccountID      string
}

// GetCheckoutStatusUseCase reports the current state of one purchase attempt
// without touching the gateway. Settled attempts read from the ledger,
// in-flight ones from the pending store.
type GetCheckoutStatusUseCase struct {
	ledgerRepo   billing.LedgerRepository
	pendingStore PendingPurchaseStore
	logger       logger.Interface
}

func NewGetCheckoutStatusUseCase(
	ledgerRepo billing.LedgerRepository,
	pendingStore PendingPurchaseStore,
	logger logger.Interface,
) *GetCheckoutStatusUseCase {
	return &GetCheckoutStatusUseCase{
		ledgerRepo:   ledgerRepo,
		pendingStore: pendingStore,
		logger:       logger,
	}
}

func (uc *GetCheckoutStatusUseCase) Execute(ctx context.Context, q GetCheckoutStatusQuery) (*dto.CheckoutResultDTO, error) {
	if !billing.ValidIdempotencyKey(q.IdempotencyKey) {
		return nil, apperrors.NewValidationError("transaction ID is malformed")
	}

	entry, err := uc.ledgerRepo.GetByIdempotencyKey(ctx, q.IdempotencyKey)
	if err == nil {
		if entry.AccountID() != q.AccountID {
			return nil, apperrors.NewForbiddenError("transaction belongs to another account")
		}
		return dto.FromLedgerEntry(entry), nil
	}
	if !apperrors.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load ledger entry: %w", err)
	}

	pending, err := uc.pendingStore.Get(ctx, q.IdempotencyKey)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.NewNotFoundError("unknown transaction",
				fmt.Sprintf("no purchase attempt for %s", q.IdempotencyKey))
		}
		return nil, fmt.Errorf("failed to load pending purchase: %w", err)
	}
	if pending.AccountID != q.AccountID {
		return nil, apperrors.NewForbiddenError("transaction belongs to another account")
	}

	return dto.FromPendingAndOutcome(*pending, billing.PaymentOutcome{
		IdempotencyKey: q.IdempotencyKey,
		Status:         vo.StatusPending,
		Amount:         pending.QuotedAmount(),
	}), nil
}
