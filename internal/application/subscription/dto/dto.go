package dto

import (
	"time"
)

// SubscriptionDTO is the external view of one account's subscription state.
type SubscriptionDTO struct {
	AccountID      string     `json:"account_id"`
	Tier           string     `json:"tier"`
	EffectiveTier  string     `json:"effective_tier"`
	Status         string     `json:"status"`
	PeriodStart    *time.Time `json:"period_start,omitempty"`
	PeriodEnd      *time.Time `json:"period_end,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	RefundEligible bool       `json:"refund_eligible"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// PaymentHistoryEntryDTO is one row of an account's payment history.
type PaymentHistoryEntryDTO struct {
	TransactionID  string    `json:"transaction_id"`
	ProviderRef    string    `json:"provider_ref,omitempty"`
	Outcome        string    `json:"outcome"`
	Tier           string    `json:"tier"`
	Period         string    `json:"period"`
	AmountMinor    int64     `json:"amount_minor"`
	Currency       string    `json:"currency"`
	DiagnosticCode string    `json:"diagnostic_code,omitempty"`
	RecordedAt     time.Time `json:"recorded_at"`
}
