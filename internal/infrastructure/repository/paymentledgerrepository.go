package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"invitio/internal/domain/billing"
	"invitio/internal/infrastructure/persistence/mappers"
	"invitio/internal/infrastructure/persistence/models"
	"invitio/internal/shared/db"
	apperrors "invitio/internal/shared/errors"
)

// PaymentLedgerRepository persists the append-only payment ledger. There is
// no update path: rows are write-once.
type PaymentLedgerRepository struct {
	db *gorm.DB
}

func NewPaymentLedgerRepository(db *gorm.DB) *PaymentLedgerRepository {
	return &PaymentLedgerRepository{db: db}
}

// Create inserts one entry. A duplicate idempotency key comes back as a
// conflict so callers can take the replay path.
func (r *PaymentLedgerRepository) Create(ctx context.Context, entry *billing.LedgerEntry) error {
	model := mappers.LedgerEntryToModel(entry)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("duplicate idempotency key", entry.IdempotencyKey())
		}
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	entry.SetID(model.ID)

	return nil
}

func (r *PaymentLedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*billing.LedgerEntry, error) {
	var model models.PaymentLedgerModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("idempotency_key = ?", key).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("ledger entry not found", key)
		}
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return mappers.LedgerEntryToDomain(&model)
}

func (r *PaymentLedgerRepository) ListByAccountID(ctx context.Context, accountID string) ([]*billing.LedgerEntry, error) {
	var entryModels []models.PaymentLedgerModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("account_id = ?", accountID).
		Order("recorded_at DESC, id DESC").
		Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	out := make([]*billing.LedgerEntry, 0, len(entryModels))
	for i := range entryModels {
		entry, err := mappers.LedgerEntryToDomain(&entryModels[i])
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}
