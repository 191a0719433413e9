package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"invitio/internal/domain/subscription"
	"invitio/internal/infrastructure/persistence/mappers"
	"invitio/internal/infrastructure/persistence/models"
	"invitio/internal/shared/db"
	apperrors "invitio/internal/shared/errors"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflictError("subscription already exists", sub.AccountID())
		}
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	sub.SetID(model.ID)

	return nil
}

// Update persists a transitioned aggregate. The version predicate rejects a
// write racing a concurrent transition: zero rows affected means the loaded
// version went stale.
func (r *SubscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version-1).
		Updates(map[string]interface{}{
			"tier":              model.Tier,
			"status":            model.Status,
			"period_start":      model.PeriodStart,
			"period_end":        model.PeriodEnd,
			"last_provider_ref": model.LastProviderRef,
			"cancelled_at":      model.CancelledAt,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewConflictError("subscription was modified concurrently", sub.AccountID())
	}

	return nil
}

func (r *SubscriptionRepository) GetByAccountID(ctx context.Context, accountID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("account_id = ?", accountID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found", accountID)
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepository) ListDueForExpiry(ctx context.Context, now time.Time, limit int) ([]*subscription.Subscription, error) {
	var subModels []models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND period_end < ?", subscription.StatusCancelledPending.String(), now).
		Order("period_end ASC").
		Limit(limit).
		Find(&subModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}

	out := make([]*subscription.Subscription, 0, len(subModels))
	for i := range subModels {
		sub, err := mappers.SubscriptionToDomain(&subModels[i])
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}
