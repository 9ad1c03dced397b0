// Package matching holds the storage-independent rules of the matching engine:
// subscription limits, distance, candidate selection and the match gates.
package matching

import (
	"spark/internal/domain/entity"
)

// Tier is a subscription level.
type Tier string

const (
	TierBasic Tier = "basic"
	TierVIP   Tier = "vip"
)

// Limits are the numeric allowances granted by a tier.
type Limits struct {
	DailySwipeCap     int     `json:"dailySwipes"`
	DiscoveryRadiusKm float64 `json:"radiusKm"`
}

// Policy maps tiers to limits.
type Policy struct {
	Basic Limits
	VIP   Limits
}

// TierOf returns the tier selected by the profile's VIP flag.
func TierOf(profile *entity.Profile) Tier {
	if profile != nil && profile.VIP {
		return TierVIP
	}

	return TierBasic
}

// Limits returns the allowances for the profile's tier.
func (p Policy) Limits(profile *entity.Profile) Limits {
	return p.ForTier(TierOf(profile))
}

// ForTier returns the allowances for tier. Unknown tiers get basic limits.
func (p Policy) ForTier(tier Tier) Limits {
	if tier == TierVIP {
		return p.VIP
	}

	return p.Basic
}
