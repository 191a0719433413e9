package subscription

import (
	"fmt"
	"time"

	vo "invitio/internal/domain/billing/valueobjects"
	"invitio/internal/domain/plan"
	apperrors "invitio/internal/shared/errors"
)

// Subscription is the aggregate root for one account's subscription record.
// At most one record exists per account; every mutation goes through the
// transition methods below.
type Subscription struct {
	id             uint
	accountID      string
	tier           plan.Tier
	status         Status
	periodStart    time.Time
	periodEnd      time.Time
	lastProviderRef string
	cancelledAt    *time.Time
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewSubscription creates the account's record in the free resting state.
func NewSubscription(accountID string, now time.Time) (*Subscription, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	now = now.UTC()
	return &Subscription{
		accountID: accountID,
		tier:      plan.TierFree,
		status:    StatusFree,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSubscription rebuilds a record from persistence.
func ReconstructSubscription(
	id uint,
	accountID string,
	tier plan.Tier,
	status Status,
	periodStart, periodEnd time.Time,
	lastProviderRef string,
	cancelledAt *time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if accountID == "" {
		return nil, fmt.Errorf("account ID is required")
	}
	if !tier.IsValid() {
		return nil, fmt.Errorf("invalid tier: %s", tier)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if status == StatusReverted && tier != plan.TierFree {
		return nil, fmt.Errorf("reverted subscription must hold the free tier")
	}
	return &Subscription{
		id:              id,
		accountID:       accountID,
		tier:            tier,
		status:          status,
		periodStart:     periodStart,
		periodEnd:       periodEnd,
		lastProviderRef: lastProviderRef,
		cancelledAt:     cancelledAt,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}, nil
}

func (s *Subscription) ID() uint                  { return s.id }
func (s *Subscription) AccountID() string         { return s.accountID }
func (s *Subscription) Tier() plan.Tier           { return s.tier }
func (s *Subscription) Status() Status            { return s.status }
func (s *Subscription) PeriodStart() time.Time    { return s.periodStart }
func (s *Subscription) PeriodEnd() time.Time      { return s.periodEnd }
func (s *Subscription) LastProviderRef() string   { return s.lastProviderRef }
func (s *Subscription) CancelledAt() *time.Time   { return s.cancelledAt }
func (s *Subscription) Version() int              { return s.version }
func (s *Subscription) CreatedAt() time.Time      { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time      { return s.updatedAt }

// SetID sets the record ID after persistence (used by the repository after Create).
func (s *Subscription) SetID(id uint) {
	s.id = id
}

// ActivatePurchase applies a successful first purchase. Allowed from the free
// and reverted resting states; anything else is an invalid transition (an
// active subscription changes tier through Upgrade).
func (s *Subscription) ActivatePurchase(tier plan.Tier, period vo.BillingPeriod, providerRef string, now time.Time) error {
	if s.status != StatusFree && s.status != StatusReverted {
		return apperrors.NewInvalidTransitionError(s.status.String(), "activate purchase")
	}
	if !tier.IsValid() || tier == plan.TierFree {
		return fmt.Errorf("cannot activate tier %q", tier)
	}
	if !period.IsValid() {
		return fmt.Errorf("invalid billing period %q", period)
	}

	now = now.UTC()
	s.tier = tier
	s.status = StatusActive
	s.periodStart = now
	s.periodEnd = now.Add(period.Duration())
	s.lastProviderRef = providerRef
	s.cancelledAt = nil
	s.touch(now)
	return nil
}

// Upgrade applies a successful upgrade purchase on an active subscription to
// a strictly greater tier. The period end stays unchanged: the upgrade price
// covers the remainder of the already-paid period.
func (s *Subscription) Upgrade(tier plan.Tier, providerRef string, now time.Time) error {
	if s.status != StatusActive {
		return apperrors.NewInvalidTransitionError(s.status.String(), "upgrade")
	}
	if !tier.IsValid() {
		return fmt.Errorf("cannot upgrade to tier %q", tier)
	}
	if plan.Compare(tier, s.tier) <= 0 {
		return apperrors.NewInvalidTransitionError(s.status.String(),
			fmt.Sprintf("upgrade from %s to %s", s.tier, tier))
	}

	s.tier = tier
	s.lastProviderRef = providerRef
	s.touch(now.UTC())
	return nil
}

// Cancel ends an active subscription. Inside the cooling-off window the
// record reverts to free immediately (the caller initiates the refund);
// outside it the record enters cancelled-pending and keeps its entitlements
// until the period end.
func (s *Subscription) Cancel(now time.Time) error {
	if s.status != StatusActive {
		return apperrors.NewInvalidTransitionError(s.status.String(), "cancel")
	}

	now = now.UTC()
	s.cancelledAt = &now
	if EligibleForRefund(s.periodStart, now) {
		s.status = StatusReverted
		s.tier = plan.TierFree
		s.periodEnd = now
	} else {
		s.status = StatusCancelledPending
	}
	s.touch(now)
	return nil
}

// RefundEligible reports whether cancelling at now would revert and refund.
func (s *Subscription) RefundEligible(now time.Time) bool {
	return s.status == StatusActive && EligibleForRefund(s.periodStart, now)
}

// ExpireIfDue moves a cancelled-pending record whose period has ended to the
// free resting state. Returns true when the transition fired. This is the
// scheduled transition; it is never user-triggered.
func (s *Subscription) ExpireIfDue(now time.Time) bool {
	if s.status != StatusCancelledPending {
		return false
	}
	now = now.UTC()
	if now.Before(s.periodEnd) {
		return false
	}
	s.status = StatusFree
	s.tier = plan.TierFree
	s.touch(now)
	return true
}

// HasEntitlements reports whether the record currently grants its tier's
// entitlements: active always, cancelled-pending until the period end.
func (s *Subscription) HasEntitlements(now time.Time) bool {
	switch s.status {
	case StatusActive:
		return true
	case StatusCancelledPending:
		return now.UTC().Before(s.periodEnd)
	default:
		return false
	}
}

// EffectiveTier returns the tier whose entitlements apply at now.
func (s *Subscription) EffectiveTier(now time.Time) plan.Tier {
	if s.HasEntitlements(now) {
		return s.tier
	}
	return plan.TierFree
}

func (s *Subscription) touch(now time.Time) {
	s.updatedAt = now
	s.version++
}
