package billing

import (
	"fmt"
	"time"

	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	"invitio/internal/shared/biztime"
)

// LedgerEntry is one write-once record in the append-only payment ledger.
// The unique idempotency key is the apply-once guard: a terminal entry for a
// key means that key's monetary effect has already been applied.
type LedgerEntry struct {
	id             uint
	idempotencyKey string
	accountID      string
	providerRef    string
	amount         vo.Money
	outcome        vo.OutcomeStatus
	tier           plan.Tier
	period         vo.BillingPeriod
	diagnosticCode string
	recordedAt     time.Time
}

// NewLedgerEntry builds a ledger record for a terminal outcome. Non-terminal
// outcomes never reach the ledger.
func NewLedgerEntry(
	idempotencyKey, accountID, providerRef string,
	amount vo.Money,
	outcome vo.OutcomeStatus,
	tier plan.Tier,
	period vo.BillingPeriod,
	diagnosticCode string,
) (*LedgerEntry, error) {
	if !ValidIdempotencyKey(idempotencyKey) && !ValidRefundRef(idempotencyKey) {
		return nil, fmt.Errorf("idempotency key is malformed")
	}
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	if !outcome.IsTerminal() {
		return nil, fmt.Errorf("cannot record non-terminal outcome %s", outcome)
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("unknown tier: %q", tier)
	}
	if !period.IsValid() {
		return nil, fmt.Errorf("unknown billing period: %q", period)
	}

	return &LedgerEntry{
		idempotencyKey: idempotencyKey,
		accountID:      accountID,
		providerRef:    providerRef,
		amount:         amount,
		outcome:        outcome,
		tier:           tier,
		period:         period,
		diagnosticCode: diagnosticCode,
		recordedAt:     biztime.NowUTC(),
	}, nil
}

// ReconstructLedgerEntry rebuilds an entry from persistence.
func ReconstructLedgerEntry(
	id uint,
	idempotencyKey, accountID, providerRef string,
	amount vo.Money,
	outcome vo.OutcomeStatus,
	tier plan.Tier,
	period vo.BillingPeriod,
	diagnosticCode string,
	recordedAt time.Time,
) (*LedgerEntry, error) {
	if id == 0 {
		return nil, fmt.Errorf("ledger entry ID cannot be zero")
	}
	if !outcome.IsValid() {
		return nil, fmt.Errorf("invalid outcome status: %s", outcome)
	}
	return &LedgerEntry{
		id:             id,
		idempotencyKey: idempotencyKey,
		accountID:      accountID,
		providerRef:    providerRef,
		amount:         amount,
		outcome:        outcome,
		tier:           tier,
		period:         period,
		diagnosticCode: diagnosticCode,
		recordedAt:     recordedAt,
	}, nil
}

func (e *LedgerEntry) ID() uint {
	return e.id
}

func (e *LedgerEntry) IdempotencyKey() string {
	return e.idempotencyKey
}

func (e *LedgerEntry) AccountID() string {
	return e.accountID
}

func (e *LedgerEntry) ProviderRef() string {
	return e.providerRef
}

func (e *LedgerEntry) Amount() vo.Money {
	return e.amount
}

func (e *LedgerEntry) Outcome() vo.OutcomeStatus {
	return e.outcome
}

func (e *LedgerEntry) Tier() plan.Tier {
	return e.tier
}

func (e *LedgerEntry) Period() vo.BillingPeriod {
	return e.period
}

func (e *LedgerEntry) DiagnosticCode() string {
	return e.diagnosticCode
}

func (e *LedgerEntry) RecordedAt() time.Time {
	return e.recordedAt
}

// IsApplied reports whether the entry represents an applied monetary effect.
func (e *LedgerEntry) IsApplied() bool {
	return e.outcome.IsTerminal()
}

// SetID sets the entry ID after persistence (used by the repository after Create).
func (e *LedgerEntry) SetID(id uint) {
	e.id = id
}
