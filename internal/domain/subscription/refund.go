package subscription

import "time"

// CoolingOffWindow is the fixed period after subscription start during which
// cancellation yields a full refund and immediate reversion to free.
const CoolingOffWindow = 3 * 24 * time.Hour

// EligibleForRefund reports whether a cancellation at now falls inside the
// cooling-off window measured from periodStart. The boundary is inclusive:
// exactly at periodStart + CoolingOffWindow still refunds. Deterministic in
// its two inputs; callers inject now instead of reading a clock.
func EligibleForRefund(periodStart, now time.Time) bool {
	return !now.After(periodStart.Add(CoolingOffWindow))
}
