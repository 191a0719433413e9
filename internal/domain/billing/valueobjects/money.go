package valueobjects

import "fmt"

type Money struct {
	amountMinor int64
	currency    string
}

// NewMoney builds a Money value from an amount in minor currency units
// (kuruş for TRY). An empty currency defaults to TRY.
func NewMoney(amountMinor int64, currency string) Money {
	if currency == "" {
		currency = "TRY"
	}
	return Money{
		amountMinor: amountMinor,
		currency:    currency,
	}
}

func (m Money) AmountMinor() int64 {
	return m.amountMinor
}

func (m Money) Currency() string {
	return m.currency
}

// AmountMajor returns the amount in major units for display only.
func (m Money) AmountMajor() float64 {
	return float64(m.amountMinor) / 100.0
}

func (m Money) Equals(other Money) bool {
	return m.amountMinor == other.amountMinor && m.currency == other.currency
}

// WithinTolerance reports whether other is the same currency and its amount
// differs by at most tolerance minor units.
func (m Money) WithinTolerance(other Money, tolerance int64) bool {
	if m.currency != other.currency {
		return false
	}
	diff := m.amountMinor - other.amountMinor
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func (m Money) IsPositive() bool {
	return m.amountMinor > 0
}

func (m Money) IsZero() bool {
	return m.amountMinor == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.AmountMajor(), m.currency)
}
