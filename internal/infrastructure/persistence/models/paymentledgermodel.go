package models

import (
	"time"
)

// PaymentLedgerModel rows are write-once. The unique idempotency key index is
// the database-level apply-once guard for payment effects.
type PaymentLedgerModel struct {
	ID             uint   `gorm:"primaryKey"`
	IdempotencyKey string `gorm:"uniqueIndex;size:64;not null"`
	AccountID      string `gorm:"index;size:64;not null"`
	ProviderRef    string `gorm:"size:128;index"`
	AmountMinor    int64  `gorm:"not null"`
	Currency       string `gorm:"size:10;not null;default:'TRY'"`
	Outcome        string `gorm:"size:32;not null;index"`
	Tier           string `gorm:"size:20;not null"`
	Period         string `gorm:"size:20;not null"`
	DiagnosticCode string `gorm:"size:64"`
	RecordedAt     time.Time
}

func (PaymentLedgerModel) TableName() string {
	return "payment_ledger"
}
