package dto

import (
	"time"

	"invitio/internal/domain/billing"
	"invitio/internal/domain/plan"
	"invitio/internal/domain/subscription"
)

// ToSubscriptionDTO converts a subscription aggregate to its external view,
// evaluated at the given instant.
func ToSubscriptionDTO(sub *subscription.Subscription, now time.Time) *SubscriptionDTO {
	periodStart := sub.PeriodStart()
	periodEnd := sub.PeriodEnd()
	createdAt := sub.CreatedAt()
	updatedAt := sub.UpdatedAt()

	d := &SubscriptionDTO{
		AccountID:      sub.AccountID(),
		Tier:           sub.Tier().String(),
		EffectiveTier:  sub.EffectiveTier(now).String(),
		Status:         sub.Status().String(),
		CancelledAt:    sub.CancelledAt(),
		RefundEligible: sub.RefundEligible(now),
		CreatedAt:      &createdAt,
		UpdatedAt:      &updatedAt,
	}
	if !periodStart.IsZero() {
		d.PeriodStart = &periodStart
	}
	if !periodEnd.IsZero() {
		d.PeriodEnd = &periodEnd
	}
	return d
}

// FreeSubscriptionDTO is the synthetic view for an account with no stored
// record. Absence of a record means the free tier.
func FreeSubscriptionDTO(accountID string) *SubscriptionDTO {
	return &SubscriptionDTO{
		AccountID:     accountID,
		Tier:          plan.TierFree.String(),
		EffectiveTier: plan.TierFree.String(),
		Status:        subscription.StatusFree.String(),
	}
}

// ToPaymentHistoryDTOs converts ledger entries to history rows.
func ToPaymentHistoryDTOs(entries []*billing.LedgerEntry) []*PaymentHistoryEntryDTO {
	out := make([]*PaymentHistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, &PaymentHistoryEntryDTO{
			TransactionID:  e.IdempotencyKey(),
			ProviderRef:    e.ProviderRef(),
			Outcome:        e.Outcome().String(),
			Tier:           e.Tier().String(),
			Period:         e.Period().String(),
			AmountMinor:    e.Amount().AmountMinor(),
			Currency:       e.Amount().Currency(),
			DiagnosticCode: e.DiagnosticCode(),
			RecordedAt:     e.RecordedAt(),
		})
	}
	return out
}
