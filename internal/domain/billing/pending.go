package billing

import (
	"fmt"
	"time"

	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
)

// PendingPurchaseContext is the transient record written to durable storage
// before control leaves for the strong-auth redirect. It is created at
// purchase start and consumed exactly once on terminal resolution.
type PendingPurchaseContext struct {
	IdempotencyKey string           `json:"idempotency_key"`
	AccountID      string           `json:"account_id"`
	Tier           plan.Tier        `json:"tier"`
	Period         vo.BillingPeriod `json:"period"`
	// QuotedAmountMinor is the amount shown to the user at purchase start, in
	// minor units. The resolver cross-checks it against the gateway's
	// authoritative amount before applying anything.
	QuotedAmountMinor int64     `json:"quoted_amount_minor"`
	Currency          string    `json:"currency"`
	CustomerEmail     string    `json:"customer_email"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewPendingPurchaseContext snapshots a validated payment request.
func NewPendingPurchaseContext(req PaymentRequest, now time.Time) PendingPurchaseContext {
	return PendingPurchaseContext{
		IdempotencyKey:    req.IdempotencyKey,
		AccountID:         req.AccountID,
		Tier:              req.Tier,
		Period:            req.Period,
		QuotedAmountMinor: req.Amount.AmountMinor(),
		Currency:          req.Amount.Currency(),
		CustomerEmail:     req.CustomerEmail,
		CreatedAt:         now.UTC(),
	}
}

// QuotedAmount returns the quoted amount as Money.
func (p PendingPurchaseContext) QuotedAmount() vo.Money {
	return vo.NewMoney(p.QuotedAmountMinor, p.Currency)
}

// Validate guards against a corrupted or tampered stored context.
func (p PendingPurchaseContext) Validate() error {
	if !ValidIdempotencyKey(p.IdempotencyKey) {
		return fmt.Errorf("pending context idempotency key is malformed")
	}
	if p.AccountID == "" {
		return fmt.Errorf("pending context account ID is empty")
	}
	if !p.Tier.IsValid() || p.Tier == plan.TierFree {
		return fmt.Errorf("pending context tier %q is invalid", p.Tier)
	}
	if !p.Period.IsValid() {
		return fmt.Errorf("pending context period %q is invalid", p.Period)
	}
	if p.QuotedAmountMinor <= 0 {
		return fmt.Errorf("pending context quoted amount must be positive")
	}
	return nil
}
