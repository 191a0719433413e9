package mappers

import (
	"fmt"

	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	"invitio/internal/infrastructure/persistence/models"
)

func LedgerEntryToModel(entry *billing.LedgerEntry) *models.PaymentLedgerModel {
	return &models.PaymentLedgerModel{
		ID:             entry.ID(),
		IdempotencyKey: entry.IdempotencyKey(),
		AccountID:      entry.AccountID(),
		ProviderRef:    entry.ProviderRef(),
		AmountMinor:    entry.Amount().AmountMinor(),
		Currency:       entry.Amount().Currency(),
		Outcome:        entry.Outcome().String(),
		Tier:           entry.Tier().String(),
		Period:         entry.Period().String(),
		DiagnosticCode: entry.DiagnosticCode(),
		RecordedAt:     entry.RecordedAt(),
	}
}

func LedgerEntryToDomain(model *models.PaymentLedgerModel) (*billing.LedgerEntry, error) {
	tier, err := plan.ParseTier(model.Tier)
	if err != nil {
		return nil, fmt.Errorf("invalid tier: %w", err)
	}
	period := vo.BillingPeriod(model.Period)
	if !period.IsValid() {
		return nil, fmt.Errorf("invalid billing period: %s", model.Period)
	}

	return billing.ReconstructLedgerEntry(
		model.ID,
		model.IdempotencyKey,
		model.AccountID,
		model.ProviderRef,
		vo.NewMoney(model.AmountMinor, model.Currency),
		vo.OutcomeStatus(model.Outcome),
		tier,
		period,
		model.DiagnosticCode,
		model.RecordedAt,
	)
}
