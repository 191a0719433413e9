package models

import (
	"time"
)

type SubscriptionModel struct {
	ID              uint   `gorm:"primaryKey"`
	AccountID       string `gorm:"uniqueIndex;size:64;not null"`
	Tier            string `gorm:"size:20;not null"`
	Status          string `gorm:"size:32;not null;index"`
	PeriodStart     *time.Time
	PeriodEnd       *time.Time `gorm:"index"`
	LastProviderRef string     `gorm:"size:128"`
	CancelledAt     *time.Time
	Version         int `gorm:"default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
