package migration

import (
	"invitio/internal/infrastructure/persistence/models"
)

// AutoMigrateModels returns every model covered by schema migration
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SubscriptionModel{},
		&models.PaymentLedgerModel{},
	}
}
