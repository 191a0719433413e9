package usecases

import (
	"context"
	"fmt"

	"invitio/internal/application/subscription/dto"
	"invitio/internal/domain/billing"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type GetPaymentHistoryQuery struct {
	AccountID string
}

// GetPaymentHistoryUseCase lists the account's ledger entries, newest first.
type GetPaymentHistoryUseCase struct {
	ledgerRepo billing.LedgerRepository
	logger     logger.Interface
}

func NewGetPaymentHistoryUseCase(
	ledgerRepo billing.LedgerRepository,
	logger logger.Interface,
) *GetPaymentHistoryUseCase {
	return &GetPaymentHistoryUseCase{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

func (uc *GetPaymentHistoryUseCase) Execute(ctx context.Context, q GetPaymentHistoryQuery) ([]*dto.PaymentHistoryEntryDTO, error) {
	if q.AccountID == "" {
		return nil, apperrors.NewValidationError("account ID is required")
	}

	entries, err := uc.ledgerRepo.ListByAccountID(ctx, q.AccountID)
	if err != nil {
		uc.logger.Errorw("failed to list payment history", "error", err, "account_id", q.AccountID)
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}

	return dto.ToPaymentHistoryDTOs(entries), nil
}
