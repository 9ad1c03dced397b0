package matching

import (
	"testing"

	"spark/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestPolicyLimits(t *testing.T) {
	t.Parallel()

	policy := Policy{
		Basic: Limits{DailySwipeCap: 20, DiscoveryRadiusKm: 10},
		VIP:   Limits{DailySwipeCap: 50, DiscoveryRadiusKm: 50},
	}

	tests := []struct {
		name    string
		profile *entity.Profile
		want    Limits
	}{
		{name: "basic profile", profile: &entity.Profile{}, want: policy.Basic},
		{name: "vip profile", profile: &entity.Profile{VIP: true}, want: policy.VIP},
		{name: "nil profile falls back to basic", profile: nil, want: policy.Basic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, policy.Limits(tt.profile))
		})
	}
}

func TestPolicyForTier(t *testing.T) {
	t.Parallel()

	policy := Policy{
		Basic: Limits{DailySwipeCap: 1, DiscoveryRadiusKm: 1},
		VIP:   Limits{DailySwipeCap: 2, DiscoveryRadiusKm: 2},
	}

	assert.Equal(t, policy.VIP, policy.ForTier(TierVIP))
	assert.Equal(t, policy.Basic, policy.ForTier(TierBasic))
	assert.Equal(t, policy.Basic, policy.ForTier(Tier("gold")))
}
