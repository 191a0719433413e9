package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"invitio/internal/domain/billing"
	apperrors "invitio/internal/shared/errors"
)

const (
	// PendingPurchasePrefix is the Redis key prefix for pending purchase contexts
	PendingPurchasePrefix = "checkout:pending:"
	// PendingPurchaseTTL bounds how long a pending purchase survives the
	// strong-auth redirect before it is abandoned
	PendingPurchaseTTL = 60 * time.Minute
)

// PendingPurchaseStore keeps pending purchase contexts in Redis, keyed by
// idempotency key, so the redirect callback can resolve an attempt started
// on another instance.
type PendingPurchaseStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPendingPurchaseStore creates a new pending purchase store
func NewPendingPurchaseStore(client *redis.Client) *PendingPurchaseStore {
	return &PendingPurchaseStore{
		client: client,
		prefix: PendingPurchasePrefix,
		ttl:    PendingPurchaseTTL,
	}
}

// NewPendingPurchaseStoreWithConfig creates a new store with custom config
func NewPendingPurchaseStoreWithConfig(client *redis.Client, prefix string, ttl time.Duration) *PendingPurchaseStore {
	if prefix == "" {
		prefix = PendingPurchasePrefix
	}
	if ttl == 0 {
		ttl = PendingPurchaseTTL
	}
	return &PendingPurchaseStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Put saves a pending purchase context under its idempotency key
func (s *PendingPurchaseStore) Put(ctx context.Context, pending billing.PendingPurchaseContext) error {
	if pending.IdempotencyKey == "" {
		return errors.New("idempotency key cannot be empty")
	}

	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending purchase: %w", err)
	}

	key := s.buildKey(pending.IdempotencyKey)
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store pending purchase in Redis: %w", err)
	}

	return nil
}

// Get retrieves a pending purchase context by idempotency key. The entry is
// kept in place; resolution deletes it explicitly once a terminal outcome is
// recorded.
func (s *PendingPurchaseStore) Get(ctx context.Context, idempotencyKey string) (*billing.PendingPurchaseContext, error) {
	if idempotencyKey == "" {
		return nil, errors.New("idempotency key cannot be empty")
	}

	data, err := s.client.Get(ctx, s.buildKey(idempotencyKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NewNotFoundError("pending purchase not found",
				fmt.Sprintf("no pending purchase for %s", idempotencyKey))
		}
		return nil, fmt.Errorf("failed to retrieve pending purchase from Redis: %w", err)
	}

	var pending billing.PendingPurchaseContext
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending purchase: %w", err)
	}

	return &pending, nil
}

// Delete removes a pending purchase context from the store
func (s *PendingPurchaseStore) Delete(ctx context.Context, idempotencyKey string) error {
	if idempotencyKey == "" {
		return errors.New("idempotency key cannot be empty")
	}

	if err := s.client.Del(ctx, s.buildKey(idempotencyKey)).Err(); err != nil {
		return fmt.Errorf("failed to delete pending purchase from Redis: %w", err)
	}

	return nil
}

// buildKey constructs the full Redis key
func (s *PendingPurchaseStore) buildKey(idempotencyKey string) string {
	return s.prefix + idempotencyKey
}
