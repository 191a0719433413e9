package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompare_TierOrdering(t *testing.T) {
	assert.Negative(t, Compare(TierFree, TierPro))
	assert.Negative(t, Compare(TierFree, TierPremium))
	assert.Negative(t, Compare(TierPro, TierPremium))
	assert.Positive(t, Compare(TierPremium, TierPro))
	assert.Positive(t, Compare(TierPro, TierFree))
	assert.Zero(t, Compare(TierPro, TierPro))
	assert.Zero(t, Compare(TierFree, TierFree))
}

func TestCompare_UnknownTierPanics(t *testing.T) {
	assert.Panics(t, func() { Compare(Tier("platinum"), TierPro) })
	assert.Panics(t, func() { Compare(TierPro, Tier("")) })
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		input   string
		want    Tier
		wantErr bool
	}{
		{"free", TierFree, false},
		{"pro", TierPro, false},
		{"premium", TierPremium, false},
		{"Pro", "", true},
		{"gold", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseTier(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDefaultRegistry_EveryTierDefinesEveryFeature(t *testing.T) {
	r := DefaultRegistry()

	for _, tier := range AllTiers() {
		def := r.DefinitionOf(tier)
		for _, f := range KnownFeatures() {
			_, ok := def.Limit(f)
			assert.True(t, ok, "tier %s missing feature %s", tier, f)
		}
	}
}

func TestDefaultRegistry_DefinitionOfUnknownTierPanics(t *testing.T) {
	r := DefaultRegistry()
	assert.Panics(t, func() { r.DefinitionOf(Tier("gold")) })
}

func TestDefaultRegistry_Prices(t *testing.T) {
	r := DefaultRegistry()

	free := r.DefinitionOf(TierFree)
	assert.True(t, free.IsFree())
	assert.Nil(t, free.YearlyPrice())

	pro := r.DefinitionOf(TierPro)
	assert.Equal(t, int64(7900), pro.MonthlyPrice().AmountMinor)
	assert.Equal(t, "TRY", pro.MonthlyPrice().Currency)
	require.NotNil(t, pro.YearlyPrice())
	assert.Equal(t, int64(79000), pro.YearlyPrice().AmountMinor)

	premium := r.DefinitionOf(TierPremium)
	require.NotNil(t, premium.YearlyPrice())
	assert.Equal(t, int64(129000), premium.YearlyPrice().AmountMinor)
}

func TestUpgradeCandidates(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []Tier{TierPro, TierPremium}, r.UpgradeCandidates(TierFree))
	assert.Equal(t, []Tier{TierPremium}, r.UpgradeCandidates(TierPro))
	assert.Empty(t, r.UpgradeCandidates(TierPremium))
}

func TestNewRegistry_RejectsIncompleteDefinitions(t *testing.T) {
	incomplete := PlanDefinition{
		tier:         TierFree,
		monthlyPrice: Price{Currency: DefaultCurrency},
		entitlements: EntitlementSet{
			FeatureActiveInvitations: CountLimit(1),
		},
	}

	_, err := NewRegistry([]PlanDefinition{incomplete})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not define feature")
}

func TestNewRegistry_RejectsMissingTier(t *testing.T) {
	full := DefaultRegistry().DefinitionOf(TierFree)

	_, err := NewRegistry([]PlanDefinition{full})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing definition for tier")
}

func TestLimit_Grants(t *testing.T) {
	tests := []struct {
		name  string
		limit Limit
		want  bool
	}{
		{"unlimited", Unlimited(), true},
		{"positive count", CountLimit(5), true},
		{"zero count", CountLimit(0), false},
		{"true bool", BoolLimit(true), true},
		{"false bool", BoolLimit(false), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.limit.Grants())
		})
	}
}

func TestLimit_MarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		limit Limit
		want  string
	}{
		{"unlimited", Unlimited(), `"unlimited"`},
		{"count", CountLimit(42), "42"},
		{"bool true", BoolLimit(true), "true"},
		{"bool false", BoolLimit(false), "false"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.limit.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}
}
