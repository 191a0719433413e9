package billing

import "context"

// LedgerRepository persists the append-only payment ledger.
//
// Create must enforce a uniqueness constraint on the idempotency key and
// surface a conflict error when a second writer races; the caller degrades to
// the no-op replay path instead of applying twice. There is no update or
// delete: entries are write-once.
type LedgerRepository interface {
	Create(ctx context.Context, entry *LedgerEntry) error
	GetByIdempotencyKey(ctx context.Context, key string) (*LedgerEntry, error)
	ListByAccountID(ctx context.Context, accountID string) ([]*LedgerEntry, error)
}
