// Package billing defines the payment domain: the request sent to the
// gateway, the outcome it reports, the append-only payment ledger and the
// transient pending-purchase context that survives the strong-auth redirect.
package billing

import (
	"fmt"
	"strings"

	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	"invitio/internal/shared/id"
)

// NewIdempotencyKey generates the transaction identifier for one
// user-initiated purchase attempt. Replays of the same attempt reuse the key;
// a new user action gets a new one.
func NewIdempotencyKey() string {
	return id.MustGenerateWithPrefix(id.PrefixTransaction, 20)
}

// ValidIdempotencyKey reports whether a caller-supplied key has the expected
// shape. Keys arriving via untrusted channels are validated before use.
func ValidIdempotencyKey(key string) bool {
	return id.HasPrefix(key, id.PrefixTransaction) && len(key) > len(id.PrefixTransaction)+1
}

// ValidRefundRef reports whether a key is a refund reference. Refund ledger
// entries are keyed by the reference sent to the gateway, so the audit trail
// reads rfn_ for money going out and txn_ for money coming in.
func ValidRefundRef(key string) bool {
	return id.HasPrefix(key, id.PrefixRefund) && len(key) > len(id.PrefixRefund)+1
}

// CardDetails is transmitted to the gateway and never persisted or logged.
type CardDetails struct {
	HolderName  string
	Number      string
	ExpireMonth string
	ExpireYear  string
	CVC         string
}

func (c CardDetails) validate() error {
	if strings.TrimSpace(c.HolderName) == "" {
		return fmt.Errorf("card holder name is required")
	}
	digits := strings.ReplaceAll(c.Number, " ", "")
	if len(digits) < 12 || len(digits) > 19 {
		return fmt.Errorf("card number length is invalid")
	}
	if c.ExpireMonth == "" || c.ExpireYear == "" {
		return fmt.Errorf("card expiry is required")
	}
	if len(c.CVC) < 3 || len(c.CVC) > 4 {
		return fmt.Errorf("card security code is invalid")
	}
	return nil
}

// BillingAddress is a snapshot taken at purchase time.
type BillingAddress struct {
	FullName string
	Address  string
	City     string
	Country  string
	ZipCode  string
}

// PaymentRequest carries everything one purchase attempt sends to the
// gateway, identified by its caller-generated idempotency key.
type PaymentRequest struct {
	IdempotencyKey string
	AccountID      string
	Tier           plan.Tier
	Period         vo.BillingPeriod
	Amount         vo.Money
	CustomerEmail  string
	CustomerName   string
	Address        BillingAddress
	Card           CardDetails
}

// Validate checks the request before submission. Failures here are
// validation errors, caught before any gateway round trip.
func (r PaymentRequest) Validate() error {
	if !ValidIdempotencyKey(r.IdempotencyKey) {
		return fmt.Errorf("idempotency key is malformed")
	}
	if r.AccountID == "" {
		return fmt.Errorf("account ID is required")
	}
	if !r.Tier.IsValid() {
		return fmt.Errorf("unknown tier: %q", r.Tier)
	}
	if r.Tier == plan.TierFree {
		return fmt.Errorf("free tier cannot be purchased")
	}
	if !r.Period.IsValid() {
		return fmt.Errorf("unknown billing period: %q", r.Period)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	if r.CustomerEmail == "" {
		return fmt.Errorf("customer email is required")
	}
	if err := r.Card.validate(); err != nil {
		return err
	}
	return nil
}
