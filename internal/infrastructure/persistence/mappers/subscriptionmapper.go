package mappers

import (
	"fmt"
	"time"

	"invitio/internal/domain/plan"
	"invitio/internal/domain/subscription"
	"invitio/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(sub *subscription.Subscription) *models.SubscriptionModel {
	model := &models.SubscriptionModel{
		ID:              sub.ID(),
		AccountID:       sub.AccountID(),
		Tier:            sub.Tier().String(),
		Status:          sub.Status().String(),
		LastProviderRef: sub.LastProviderRef(),
		CancelledAt:     sub.CancelledAt(),
		Version:         sub.Version(),
		CreatedAt:       sub.CreatedAt(),
		UpdatedAt:       sub.UpdatedAt(),
	}
	if ps := sub.PeriodStart(); !ps.IsZero() {
		model.PeriodStart = &ps
	}
	if pe := sub.PeriodEnd(); !pe.IsZero() {
		model.PeriodEnd = &pe
	}
	return model
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	tier, err := plan.ParseTier(model.Tier)
	if err != nil {
		return nil, fmt.Errorf("invalid tier: %w", err)
	}

	var periodStart, periodEnd time.Time
	if model.PeriodStart != nil {
		periodStart = *model.PeriodStart
	}
	if model.PeriodEnd != nil {
		periodEnd = *model.PeriodEnd
	}

	return subscription.ReconstructSubscription(
		model.ID,
		model.AccountID,
		tier,
		subscription.Status(model.Status),
		periodStart,
		periodEnd,
		model.LastProviderRef,
		model.CancelledAt,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
