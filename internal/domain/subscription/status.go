// Package subscription owns the SubscriptionRecord aggregate and its state
// machine. The record is mutated only through the transition methods here;
// an illegal request is rejected, never clamped into a legal one.
package subscription

// Status is the lifecycle state of an account's subscription.
type Status string

const (
	// StatusFree is the resting state: no paid entitlements.
	StatusFree Status = "free"
	// StatusActive means a paid tier is in force until the period end.
	StatusActive Status = "active"
	// StatusCancelledPending means the subscription was cancelled outside the
	// cooling-off window; entitlements remain until the period end.
	StatusCancelledPending Status = "cancelled_pending"
	// StatusReverted means a cooling-off cancellation refunded the purchase
	// and dropped the account to free immediately.
	StatusReverted Status = "reverted"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusFree, StatusActive, StatusCancelledPending, StatusReverted:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
