// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"time"

	"spark/config"
	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/matching"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// newPolicy builds the subscription policy from the configured tiers.
func newPolicy(cfg *config.Config) matching.Policy {
	sub := cfg.Subscription

	return matching.Policy{
		Basic: matching.Limits{DailySwipeCap: sub.Basic.DailySwipes, DiscoveryRadiusKm: sub.Basic.RadiusKm},
		VIP:   matching.Limits{DailySwipeCap: sub.VIP.DailySwipes, DiscoveryRadiusKm: sub.VIP.RadiusKm},
	}
}

// quotaLocation returns the zone whose calendar day bounds the swipe quota.
func quotaLocation(cfg *config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Subscription.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid subscription timezone %q", cfg.Subscription.Timezone)
	}

	return loc, nil
}

// findOwnProfile loads the profile owned by accountID.
func findOwnProfile(ctx context.Context, profiles repository.ProfileRepository, accountID uuid.UUID) (*entity.Profile, error) {
	profile, err := profiles.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProfileNotFound, "no profile for account")
		}

		return nil, errors.Wrap(err, "failed to find profile by account")
	}

	return profile, nil
}

// isMutualMatch reports whether a and b have each liked the other.
func isMutualMatch(ctx context.Context, swipes repository.SwipeRepository, a, b uuid.UUID) (bool, error) {
	forward, err := findSwipe(ctx, swipes, a, b)
	if err != nil || forward == nil {
		return false, err
	}

	backward, err := findSwipe(ctx, swipes, b, a)
	if err != nil || backward == nil {
		return false, err
	}

	return matching.IsMatch(forward, backward), nil
}

// findSwipe returns the swipe swiperID made on swipedID, or nil when there is none.
func findSwipe(ctx context.Context, swipes repository.SwipeRepository, swiperID, swipedID uuid.UUID) (*entity.Swipe, error) {
	swipe, err := swipes.Find(ctx, swiperID, swipedID)
	if errors.Is(err, repository.ErrSwipeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find swipe")
	}

	return swipe, nil
}
