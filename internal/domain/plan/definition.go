package plan

// Price is a tier price in minor currency units (kuruş for TRY).
type Price struct {
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

// PlanDefinition describes one tier: its prices and the complete entitlement
// set. Definitions are immutable after registry construction.
type PlanDefinition struct {
	tier         Tier
	monthlyPrice Price
	yearlyPrice  *Price
	entitlements EntitlementSet
}

func (d PlanDefinition) Tier() Tier {
	return d.tier
}

func (d PlanDefinition) MonthlyPrice() Price {
	return d.monthlyPrice
}

// YearlyPrice returns the yearly price, or nil when the tier has no yearly
// billing option (the free tier).
func (d PlanDefinition) YearlyPrice() *Price {
	if d.yearlyPrice == nil {
		return nil
	}
	p := *d.yearlyPrice
	return &p
}

// Entitlements returns a copy of the tier's entitlement set.
func (d PlanDefinition) Entitlements() EntitlementSet {
	out := make(EntitlementSet, len(d.entitlements))
	for f, l := range d.entitlements {
		out[f] = l
	}
	return out
}

// Limit returns the value the tier assigns to a feature and whether the
// feature is known to the definition.
func (d PlanDefinition) Limit(f Feature) (Limit, bool) {
	l, ok := d.entitlements[f]
	return l, ok
}

// IsFree reports whether the tier costs nothing.
func (d PlanDefinition) IsFree() bool {
	return d.monthlyPrice.AmountMinor == 0
}
