// Package plan is the single source of truth for subscription tiers and the
// entitlements each tier grants. The registry is static and versioned with the
// code; both client-side gating and server-side enforcement read from it.
package plan

import "fmt"

// Tier is a named subscription level. Tiers are totally ordered for
// upgrade/downgrade comparisons: free < pro < premium.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
)

// tierRank encodes the fixed total order. Unknown tiers are a programming
// error, not a runtime condition.
var tierRank = map[Tier]int{
	TierFree:    0,
	TierPro:     1,
	TierPremium: 2,
}

// AllTiers lists every tier in ascending order.
func AllTiers() []Tier {
	return []Tier{TierFree, TierPro, TierPremium}
}

// ParseTier converts a raw string into a Tier.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown tier: %q", s)
	}
	return t, nil
}

func (t Tier) IsValid() bool {
	_, ok := tierRank[t]
	return ok
}

func (t Tier) String() string {
	return string(t)
}

// Compare returns -1, 0 or 1 using the fixed tier ordering.
// It panics on an unknown tier.
func Compare(a, b Tier) int {
	ra, ok := tierRank[a]
	if !ok {
		panic(fmt.Sprintf("plan: unknown tier %q", a))
	}
	rb, ok := tierRank[b]
	if !ok {
		panic(fmt.Sprintf("plan: unknown tier %q", b))
	}
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}
