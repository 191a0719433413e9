// Package entitlement answers "can tier T do feature F, and with what limit".
// The evaluator is a pure read over the plan registry; it holds no state and
// is safe for unsynchronized concurrent use.
package entitlement

import (
	"fmt"

	"invitio/internal/domain/plan"
)

type Evaluator struct {
	registry *plan.Registry
}

func NewEvaluator(registry *plan.Registry) *Evaluator {
	return &Evaluator{registry: registry}
}

// LimitOf returns the value tier assigns to feature. Unknown features are a
// programming error: the registry guarantees every tier defines every known
// feature, so a miss means the caller passed a key outside the known set.
func (e *Evaluator) LimitOf(tier plan.Tier, feature plan.Feature) (plan.Limit, error) {
	def := e.registry.DefinitionOf(tier)
	limit, ok := def.Limit(feature)
	if !ok {
		return plan.Limit{}, fmt.Errorf("unknown feature: %q", feature)
	}
	return limit, nil
}

// NeedsUpgrade reports whether the tier grants no use of the feature: true
// when the value is false or zero, false when it is true, a positive count,
// or unlimited. Unlimited and positive counts gate identically.
func (e *Evaluator) NeedsUpgrade(tier plan.Tier, feature plan.Feature) (bool, error) {
	limit, err := e.LimitOf(tier, feature)
	if err != nil {
		return false, err
	}
	return !limit.Grants(), nil
}

// UpgradeTargetFor returns the cheapest tier above the given one that grants
// the feature, or false when no tier does.
func (e *Evaluator) UpgradeTargetFor(tier plan.Tier, feature plan.Feature) (plan.Tier, bool) {
	for _, candidate := range e.registry.UpgradeCandidates(tier) {
		if limit, ok := e.registry.DefinitionOf(candidate).Limit(feature); ok && limit.Grants() {
			return candidate, true
		}
	}
	return "", false
}
