package valueobjects

import (
	"fmt"
	"time"
)

// BillingPeriod is the purchased subscription duration.
type BillingPeriod string

const (
	PeriodMonthly BillingPeriod = "monthly"
	PeriodYearly  BillingPeriod = "yearly"
)

func NewBillingPeriod(s string) (BillingPeriod, error) {
	p := BillingPeriod(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown billing period: %q", s)
	}
	return p, nil
}

func (p BillingPeriod) IsValid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// Duration returns the entitlement span the period buys.
func (p BillingPeriod) Duration() time.Duration {
	if p == PeriodYearly {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

func (p BillingPeriod) String() string {
	return string(p)
}
