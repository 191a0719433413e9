package usecases

import (
	"context"

	"invitio/internal/domain/billing"
)

// PendingPurchaseStore keeps the pending-purchase context alive across the
// strong-auth redirect. Entries expire on their own after the configured TTL;
// Delete removes one eagerly once the attempt resolves.
type PendingPurchaseStore interface {
	Put(ctx context.Context, pending billing.PendingPurchaseContext) error
	// Get returns a not-found error when no context exists for the key.
	Get(ctx context.Context, idempotencyKey string) (*billing.PendingPurchaseContext, error)
	Delete(ctx context.Context, idempotencyKey string) error
}

// ReceiptSender delivers the post-purchase receipt. Delivery failures are
// logged, never surfaced to the buyer.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, email string, result ReceiptData) error
}

// ReceiptData carries what the receipt template needs.
type ReceiptData struct {
	TransactionID string
	Tier          string
	Period        string
	AmountMinor   int64
	Currency      string
}
