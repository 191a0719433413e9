package usecases

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"invitio/internal/application/checkout/gateway"
	"invitio/internal/domain/billing"
	"invitio/internal/domain/subscription"
	apperrors "invitio/internal/shared/errors"
	"invitio/internal/shared/logger"
)

func testLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type memLedgerRepo struct {
	mu      sync.Mutex
	nextID  uint
	entries map[string]*billing.LedgerEntry
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{entries: map[string]*billing.LedgerEntry{}}
}

func (r *memLedgerRepo) Create(_ context.Context, entry *billing.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[entry.IdempotencyKey()]; ok {
		return apperrors.NewConflictError("duplicate idempotency key", entry.IdempotencyKey())
	}
	r.nextID++
	entry.SetID(r.nextID)
	r.entries[entry.IdempotencyKey()] = entry
	return nil
}

func (r *memLedgerRepo) GetByIdempotencyKey(_ context.Context, key string) (*billing.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("ledger entry not found", key)
	}
	return e, nil
}

func (r *memLedgerRepo) ListByAccountID(_ context.Context, accountID string) ([]*billing.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.LedgerEntry
	for _, e := range r.entries {
		if e.AccountID() == accountID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out, nil
}

type memSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*subscription.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subs: map[string]*subscription.Subscription{}}
}

func (r *memSubscriptionRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[sub.AccountID()]; ok {
		return apperrors.NewConflictError("subscription already exists", sub.AccountID())
	}
	sub.SetID(uint(len(r.subs) + 1))
	r.subs[sub.AccountID()] = sub
	return nil
}

func (r *memSubscriptionRepo) Update(_ context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.AccountID()] = sub
	return nil
}

func (r *memSubscriptionRepo) GetByAccountID(_ context.Context, accountID string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("subscription not found", accountID)
	}
	return sub, nil
}

func (r *memSubscriptionRepo) ListDueForExpiry(_ context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*subscription.Subscription
	for _, sub := range r.subs {
		if sub.Status() == subscription.StatusCancelledPending && now.After(sub.PeriodEnd()) {
			out = append(out, sub)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type scriptGateway struct {
	SubmitFunc      func(ctx context.Context, req billing.PaymentRequest) (billing.PaymentOutcome, error)
	QueryStatusFunc func(ctx context.Context, key string) (billing.PaymentOutcome, error)
	RefundFunc      func(ctx context.Context, req gateway.RefundRequest) (string, error)
}

func (g *scriptGateway) Submit(ctx context.Context, req billing.PaymentRequest) (billing.PaymentOutcome, error) {
	if g.SubmitFunc != nil {
		return g.SubmitFunc(ctx, req)
	}
	return billing.PaymentOutcome{}, nil
}

func (g *scriptGateway) QueryStatus(ctx context.Context, key string) (billing.PaymentOutcome, error) {
	if g.QueryStatusFunc != nil {
		return g.QueryStatusFunc(ctx, key)
	}
	return billing.PaymentOutcome{}, nil
}

func (g *scriptGateway) Refund(ctx context.Context, req gateway.RefundRequest) (string, error) {
	if g.RefundFunc != nil {
		return g.RefundFunc(ctx, req)
	}
	return "", nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
