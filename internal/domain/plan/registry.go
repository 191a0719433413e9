package plan

import "fmt"

// DefaultCurrency is the currency every registry price is quoted in.
const DefaultCurrency = "TRY"

// Registry holds the static tier definitions. It is side-effect free and safe
// for unsynchronized concurrent reads after construction.
type Registry struct {
	definitions map[Tier]PlanDefinition
}

// NewRegistry builds a registry from definitions and verifies completeness:
// every tier must define a value for every known feature key.
func NewRegistry(definitions []PlanDefinition) (*Registry, error) {
	byTier := make(map[Tier]PlanDefinition, len(definitions))
	for _, def := range definitions {
		if !def.tier.IsValid() {
			return nil, fmt.Errorf("definition carries unknown tier %q", def.tier)
		}
		if _, dup := byTier[def.tier]; dup {
			return nil, fmt.Errorf("duplicate definition for tier %s", def.tier)
		}
		for _, f := range KnownFeatures() {
			if _, ok := def.entitlements[f]; !ok {
				return nil, fmt.Errorf("tier %s does not define feature %s", def.tier, f)
			}
		}
		byTier[def.tier] = def
	}
	for _, t := range AllTiers() {
		if _, ok := byTier[t]; !ok {
			return nil, fmt.Errorf("missing definition for tier %s", t)
		}
	}
	return &Registry{definitions: byTier}, nil
}

// DefaultRegistry returns the registry shipped with this release. It panics on
// an invalid table because that is a build defect, not a runtime condition.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]PlanDefinition{
		{
			tier:         TierFree,
			monthlyPrice: Price{AmountMinor: 0, Currency: DefaultCurrency},
			entitlements: EntitlementSet{
				FeatureActiveInvitations:   CountLimit(1),
				FeatureGuestsPerInvitation: CountLimit(30),
				FeaturePremiumThemes:       BoolLimit(false),
				FeatureRemoveBranding:      BoolLimit(false),
				FeatureRSVPTracking:        BoolLimit(true),
				FeaturePDFExport:           CountLimit(0),
				FeaturePhotoGallerySize:    CountLimit(0),
				FeaturePrioritySupport:     BoolLimit(false),
			},
		},
		{
			tier:         TierPro,
			monthlyPrice: Price{AmountMinor: 7900, Currency: DefaultCurrency},
			yearlyPrice:  &Price{AmountMinor: 79000, Currency: DefaultCurrency},
			entitlements: EntitlementSet{
				FeatureActiveInvitations:   CountLimit(10),
				FeatureGuestsPerInvitation: CountLimit(200),
				FeaturePremiumThemes:       BoolLimit(true),
				FeatureRemoveBranding:      BoolLimit(true),
				FeatureRSVPTracking:        BoolLimit(true),
				FeaturePDFExport:           CountLimit(5),
				FeaturePhotoGallerySize:    CountLimit(50),
				FeaturePrioritySupport:     BoolLimit(false),
			},
		},
		{
			tier:         TierPremium,
			monthlyPrice: Price{AmountMinor: 12900, Currency: DefaultCurrency},
			yearlyPrice:  &Price{AmountMinor: 129000, Currency: DefaultCurrency},
			entitlements: EntitlementSet{
				FeatureActiveInvitations:   Unlimited(),
				FeatureGuestsPerInvitation: Unlimited(),
				FeaturePremiumThemes:       BoolLimit(true),
				FeatureRemoveBranding:      BoolLimit(true),
				FeatureRSVPTracking:        BoolLimit(true),
				FeaturePDFExport:           Unlimited(),
				FeaturePhotoGallerySize:    CountLimit(500),
				FeaturePrioritySupport:     BoolLimit(true),
			},
		},
	})
	if err != nil {
		panic(fmt.Sprintf("plan: invalid default registry: %v", err))
	}
	return r
}

// DefinitionOf returns the definition for a tier. The function is total over
// valid tiers; asking for an unknown tier panics.
func (r *Registry) DefinitionOf(tier Tier) PlanDefinition {
	def, ok := r.definitions[tier]
	if !ok {
		panic(fmt.Sprintf("plan: no definition for tier %q", tier))
	}
	return def
}

// UpgradeCandidates returns the tiers strictly greater than the given tier,
// in ascending order.
func (r *Registry) UpgradeCandidates(tier Tier) []Tier {
	var out []Tier
	for _, t := range AllTiers() {
		if Compare(t, tier) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Definitions returns all definitions in ascending tier order.
func (r *Registry) Definitions() []PlanDefinition {
	out := make([]PlanDefinition, 0, len(r.definitions))
	for _, t := range AllTiers() {
		out = append(out, r.definitions[t])
	}
	return out
}
