package usecases

import (
	"context"
	"fmt"

	"invitio/internal/application/subscription/dto"
	"invitio/internal/domain/subscription"
	"invitio/internal/shared/biztime"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	AccountID string
}

// GetSubscriptionUseCase returns the account's subscription view. An account
// with no stored record is on the free tier.
type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, q GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	if q.AccountID == "" {
		return nil, apperrors.NewValidationError("account ID is required")
	}

	sub, err := uc.subscriptionRepo.GetByAccountID(ctx, q.AccountID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return dto.FreeSubscriptionDTO(q.AccountID), nil
		}
		uc.logger.Errorw("failed to get subscription", "error", err, "account_id", q.AccountID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return dto.ToSubscriptionDTO(sub, biztime.NowUTC()), nil
}
