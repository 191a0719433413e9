package dto

import (
	"invitio/internal/domain/billing"
)

// CheckoutResultDTO is the external view of one purchase attempt. The
// idempotency key doubles as the public transaction identifier.
type CheckoutResultDTO struct {
	TransactionID     string `json:"transaction_id"`
	Status            string `json:"status"`
	Tier              string `json:"tier"`
	Period            string `json:"period"`
	AmountMinor       int64  `json:"amount_minor"`
	Currency          string `json:"currency"`
	RedirectPayload   string `json:"redirect_payload,omitempty"`
	DiagnosticCode    string `json:"diagnostic_code,omitempty"`
	DiagnosticMessage string `json:"diagnostic_message,omitempty"`
}

// FromPendingAndOutcome builds the result for an attempt still carrying its
// pending context.
func FromPendingAndOutcome(pending billing.PendingPurchaseContext, outcome billing.PaymentOutcome) *CheckoutResultDTO {
	return &CheckoutResultDTO{
		TransactionID:     pending.IdempotencyKey,
		Status:            outcome.Status.String(),
		Tier:              pending.Tier.String(),
		Period:            pending.Period.String(),
		AmountMinor:       pending.QuotedAmountMinor,
		Currency:          pending.Currency,
		RedirectPayload:   outcome.RedirectPayload,
		DiagnosticCode:    outcome.DiagnosticCode,
		DiagnosticMessage: outcome.DiagnosticMessage,
	}
}

// FromLedgerEntry builds the result for an already-recorded attempt. Used on
// replays after the pending context is gone.
func FromLedgerEntry(entry *billing.LedgerEntry) *CheckoutResultDTO {
	return &CheckoutResultDTO{
		TransactionID:  entry.IdempotencyKey(),
		Status:         entry.Outcome().String(),
		Tier:           entry.Tier().String(),
		Period:         entry.Period().String(),
		AmountMinor:    entry.Amount().AmountMinor(),
		Currency:       entry.Amount().Currency(),
		DiagnosticCode: entry.DiagnosticCode(),
	}
}
