package plan

import "fmt"

// Feature names a capability or numeric limit granted by a tier.
type Feature string

const (
	FeatureActiveInvitations   Feature = "active_invitations"
	FeatureGuestsPerInvitation Feature = "guests_per_invitation"
	FeaturePremiumThemes       Feature = "premium_themes"
	FeatureRemoveBranding      Feature = "remove_branding"
	FeatureRSVPTracking        Feature = "rsvp_tracking"
	FeaturePDFExport           Feature = "pdf_export"
	FeaturePhotoGallerySize    Feature = "photo_gallery_size"
	FeaturePrioritySupport     Feature = "priority_support"
)

// KnownFeatures lists every feature key. Every tier must define a value for
// every key here; there are no implicit defaults.
func KnownFeatures() []Feature {
	return []Feature{
		FeatureActiveInvitations,
		FeatureGuestsPerInvitation,
		FeaturePremiumThemes,
		FeatureRemoveBranding,
		FeatureRSVPTracking,
		FeaturePDFExport,
		FeaturePhotoGallerySize,
		FeaturePrioritySupport,
	}
}

type limitKind int

const (
	limitBool limitKind = iota
	limitCount
	limitUnlimited
)

// Limit is the value a tier assigns to a feature: a boolean capability, a
// bounded count, or the unlimited sentinel.
type Limit struct {
	kind    limitKind
	enabled bool
	count   int
}

// BoolLimit returns a boolean capability value.
func BoolLimit(enabled bool) Limit {
	return Limit{kind: limitBool, enabled: enabled}
}

// CountLimit returns a bounded numeric value. Negative counts are invalid and
// clamp to zero.
func CountLimit(n int) Limit {
	if n < 0 {
		n = 0
	}
	return Limit{kind: limitCount, count: n}
}

// Unlimited returns the unlimited sentinel.
func Unlimited() Limit {
	return Limit{kind: limitUnlimited}
}

// IsUnlimited reports whether the value is the unlimited sentinel.
func (l Limit) IsUnlimited() bool {
	return l.kind == limitUnlimited
}

// IsBool reports whether the value is a boolean capability.
func (l Limit) IsBool() bool {
	return l.kind == limitBool
}

// Bool returns the boolean capability value; false for non-boolean limits.
func (l Limit) Bool() bool {
	return l.kind == limitBool && l.enabled
}

// Count returns the bounded numeric value; zero for non-count limits.
func (l Limit) Count() int {
	if l.kind != limitCount {
		return 0
	}
	return l.count
}

// Grants reports whether the value grants any use of the feature: true for
// unlimited, an enabled boolean, or a positive count. Unlimited and positive
// counts are deliberately identical for gating purposes.
func (l Limit) Grants() bool {
	switch l.kind {
	case limitUnlimited:
		return true
	case limitBool:
		return l.enabled
	default:
		return l.count > 0
	}
}

func (l Limit) String() string {
	switch l.kind {
	case limitUnlimited:
		return "unlimited"
	case limitBool:
		return fmt.Sprintf("%t", l.enabled)
	default:
		return fmt.Sprintf("%d", l.count)
	}
}

// MarshalJSON encodes the limit as true/false, a number, or "unlimited".
func (l Limit) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case limitUnlimited:
		return []byte(`"unlimited"`), nil
	case limitBool:
		if l.enabled {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	default:
		return []byte(fmt.Sprintf("%d", l.count)), nil
	}
}

// EntitlementSet maps every known feature to the value a tier grants.
type EntitlementSet map[Feature]Limit

// Get returns the value for a feature and whether the feature is defined.
func (s EntitlementSet) Get(f Feature) (Limit, bool) {
	l, ok := s[f]
	return l, ok
}
