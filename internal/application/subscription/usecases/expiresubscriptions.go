package usecases

import (
	"context"
	"fmt"

	"invitio/internal/domain/subscription"
	"invitio/internal/shared/biztime"
	"invitio/internal/shared/logger"
)

const expiryBatchSize = 200

// ExpireSubscriptionsUseCase reverts cancelled-pending subscriptions whose
// paid period has elapsed. Reads evaluate entitlements against the period end
// in real time; this sweep keeps the stored records consistent.
type ExpireSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewExpireSubscriptionsUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *ExpireSubscriptionsUseCase {
	return &ExpireSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute reverts all due subscriptions and returns how many it processed.
func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	now := biztime.NowUTC()

	due, err := uc.subscriptionRepo.ListDueForExpiry(ctx, now, expiryBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list due subscriptions: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	uc.logger.Infow("found subscriptions due for expiry", "count", len(due))

	reverted := 0
	for _, sub := range due {
		if !sub.ExpireIfDue(now) {
			continue
		}
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to update expired subscription",
				"account_id", sub.AccountID(),
				"error", err,
			)
			continue
		}
		reverted++
		uc.logger.Debugw("subscription reverted to free",
			"account_id", sub.AccountID(),
		)
	}

	return reverted, nil
}
