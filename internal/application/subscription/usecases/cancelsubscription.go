package usecases

import (
	"context"
	"fmt"

	"invitio/internal/application/checkout/gateway"
	"invitio/internal/application/subscription/dto"
	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/subscription"
	"invitio/internal/shared/biztime"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/id"
	"invitio/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	AccountID string
	Reason    string
}

type CancelSubscriptionResult struct {
	Subscription *dto.SubscriptionDTO `json:"subscription"`
	Refunded     bool                 `json:"refunded"`
	RefundRef    string               `json:"refund_ref,omitempty"`
}

// CancelSubscriptionUseCase ends an active subscription. Inside the
// cooling-off window the payment is refunded through the gateway and the
// account reverts to free immediately; outside the window the paid tier stays
// until the period end.
//
// The gateway refund runs before the local transaction: a failed refund
// aborts the cancellation so money and entitlements never disagree.
type CancelSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	ledgerRepo       billing.LedgerRepository
	gateway          gateway.PaymentGateway
	tx               TransactionRunner
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	ledgerRepo billing.LedgerRepository,
	gw gateway.PaymentGateway,
	tx TransactionRunner,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		ledgerRepo:       ledgerRepo,
		gateway:          gw,
		tx:               tx,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	sub, err := uc.subscriptionRepo.GetByAccountID(ctx, cmd.AccountID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, apperrors.NewInvalidTransitionError(subscription.StatusFree.String(), "cancel")
		}
		uc.logger.Errorw("failed to get subscription", "error", err, "account_id", cmd.AccountID)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	now := biztime.NowUTC()
	refundable := sub.RefundEligible(now)

	var settlement *billing.LedgerEntry
	var refundRef, providerRefundRef string
	if refundable {
		settlement, err = uc.findSettlement(ctx, sub)
		if err != nil {
			return nil, err
		}

		refundRef = id.MustGenerateWithPrefix(id.PrefixRefund, 20)
		providerRefundRef, err = uc.gateway.Refund(ctx, gateway.RefundRequest{
			RefundRef:   refundRef,
			ProviderRef: settlement.ProviderRef(),
			Amount:      settlement.Amount(),
			Reason:      cmd.Reason,
		})
		if err != nil {
			uc.logger.Errorw("gateway refund failed, cancellation aborted",
				"error", err,
				"account_id", cmd.AccountID,
				"provider_ref", settlement.ProviderRef(),
			)
			return nil, err
		}
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := sub.Cancel(now); err != nil {
			return err
		}
		if err := uc.subscriptionRepo.Update(txCtx, sub); err != nil {
			return fmt.Errorf("failed to update subscription: %w", err)
		}
		if settlement == nil {
			return nil
		}
		// Keyed by the refund reference so the ledger row names the
		// gateway-side refund it records.
		refundEntry, err := billing.NewLedgerEntry(
			refundRef,
			cmd.AccountID,
			providerRefundRef,
			settlement.Amount(),
			vo.StatusRefunded,
			settlement.Tier(),
			settlement.Period(),
			"",
		)
		if err != nil {
			return err
		}
		return uc.ledgerRepo.Create(txCtx, refundEntry)
	})
	if err != nil {
		uc.logger.Errorw("failed to cancel subscription",
			"error", err,
			"account_id", cmd.AccountID,
			"refunded", refundable,
		)
		return nil, err
	}

	uc.logger.Infow("subscription cancelled",
		"account_id", cmd.AccountID,
		"status", sub.Status(),
		"refunded", refundable,
		"reason", cmd.Reason,
	)

	return &CancelSubscriptionResult{
		Subscription: dto.ToSubscriptionDTO(sub, now),
		Refunded:     refundable,
		RefundRef:    providerRefundRef,
	}, nil
}

// findSettlement locates the success entry backing the current period.
func (uc *CancelSubscriptionUseCase) findSettlement(ctx context.Context, sub *subscription.Subscription) (*billing.LedgerEntry, error) {
	entries, err := uc.ledgerRepo.ListByAccountID(ctx, sub.AccountID())
	if err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}
	// Entries arrive newest first; prefer the one matching the provider
	// reference on the subscription.
	var newest *billing.LedgerEntry
	for _, e := range entries {
		if !e.Outcome().IsSuccess() {
			continue
		}
		if e.ProviderRef() == sub.LastProviderRef() {
			return e, nil
		}
		if newest == nil {
			newest = e
		}
	}
	if newest == nil {
		uc.logger.Errorw("no settlement found for refundable subscription",
			"account_id", sub.AccountID(),
			"provider_ref", sub.LastProviderRef(),
		)
		return nil, apperrors.NewInternalError("no settled payment found for refund")
	}
	return newest, nil
}
