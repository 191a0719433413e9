package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invitio/internal/domain/plan"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	return NewEvaluator(plan.DefaultRegistry())
}

func TestNeedsUpgrade_ZeroVsPositiveVsUnlimited(t *testing.T) {
	e := newEvaluator(t)

	tests := []struct {
		name    string
		tier    plan.Tier
		feature plan.Feature
		want    bool
	}{
		{"free pdf export is zero", plan.TierFree, plan.FeaturePDFExport, true},
		{"pro pdf export is positive", plan.TierPro, plan.FeaturePDFExport, false},
		{"premium pdf export is unlimited", plan.TierPremium, plan.FeaturePDFExport, false},
		{"free gallery is zero", plan.TierFree, plan.FeaturePhotoGallerySize, true},
		{"premium gallery is positive", plan.TierPremium, plan.FeaturePhotoGallerySize, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.NeedsUpgrade(tc.tier, tc.feature)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNeedsUpgrade_BooleanFeatures(t *testing.T) {
	e := newEvaluator(t)

	got, err := e.NeedsUpgrade(plan.TierFree, plan.FeaturePremiumThemes)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = e.NeedsUpgrade(plan.TierPro, plan.FeaturePremiumThemes)
	require.NoError(t, err)
	assert.False(t, got)

	// RSVP tracking is granted to everyone, including the free tier.
	got, err = e.NeedsUpgrade(plan.TierFree, plan.FeatureRSVPTracking)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestNeedsUpgrade_FreeTierMonotonicity(t *testing.T) {
	e := newEvaluator(t)

	// Every feature the free tier holds at false/0 must gate as needs-upgrade;
	// everything granted must not.
	for _, f := range plan.KnownFeatures() {
		limit, err := e.LimitOf(plan.TierFree, f)
		require.NoError(t, err)

		needs, err := e.NeedsUpgrade(plan.TierFree, f)
		require.NoError(t, err)
		assert.Equal(t, !limit.Grants(), needs, "feature %s", f)
	}
}

func TestLimitOf_UnknownFeature(t *testing.T) {
	e := newEvaluator(t)

	_, err := e.LimitOf(plan.TierPro, plan.Feature("time_travel"))
	assert.Error(t, err)

	_, err = e.NeedsUpgrade(plan.TierPro, plan.Feature("time_travel"))
	assert.Error(t, err)
}

func TestUpgradeTargetFor(t *testing.T) {
	e := newEvaluator(t)

	target, ok := e.UpgradeTargetFor(plan.TierFree, plan.FeaturePremiumThemes)
	require.True(t, ok)
	assert.Equal(t, plan.TierPro, target)

	target, ok = e.UpgradeTargetFor(plan.TierFree, plan.FeaturePrioritySupport)
	require.True(t, ok)
	assert.Equal(t, plan.TierPremium, target)

	_, ok = e.UpgradeTargetFor(plan.TierPremium, plan.FeaturePrioritySupport)
	assert.False(t, ok)
}
