// Package gateway defines the outbound port to the card payment provider.
package gateway

import (
	"context"

	"invitio/internal/domain/billing"
	vo "invitio/internal/domain/billing/valueobjects"
)

// PaymentGateway is the provider-facing port. Implementations translate
// provider statuses into the closed outcome set; anything unrecognized maps
// to a failure outcome with a diagnostic code rather than a new state.
type PaymentGateway interface {
	// Submit sends one purchase attempt identified by its idempotency key.
	// A transport failure returns a gateway timeout error and the same key
	// must be reused on retry.
	Submit(ctx context.Context, req billing.PaymentRequest) (billing.PaymentOutcome, error)

	// QueryStatus fetches the provider's current view of an attempt.
	QueryStatus(ctx context.Context, idempotencyKey string) (billing.PaymentOutcome, error)

	// Refund reverses a settled payment and returns the provider's refund
	// reference.
	Refund(ctx context.Context, req RefundRequest) (string, error)
}

// RefundRequest identifies the settlement to reverse. RefundRef is our side's
// idempotency handle for the refund itself.
type RefundRequest struct {
	RefundRef   string
	ProviderRef string
	Amount      vo.Money
	Reason      string
}
