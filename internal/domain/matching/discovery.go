package matching

import (
	"math/rand/v2"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

// ErrRequesterUnlocated is returned when discovery runs for a profile without coordinates.
var ErrRequesterUnlocated = errors.New("requester has no coordinates")

// Predicate decides whether a candidate stays in the pool.
type Predicate func(candidate *entity.Profile) bool

// All combines predicates with logical AND.
func All(predicates ...Predicate) Predicate {
	return func(candidate *entity.Profile) bool {
		for _, keep := range predicates {
			if !keep(candidate) {
				return false
			}
		}

		return true
	}
}

// ExcludeSelf drops profiles owned by the requester's account.
func ExcludeSelf(requester *entity.Profile) Predicate {
	return func(candidate *entity.Profile) bool {
		return candidate.ID != requester.ID && candidate.AccountID != requester.AccountID
	}
}

// ExcludeGender drops profiles of the given gender.
func ExcludeGender(gender entity.Gender) Predicate {
	return func(candidate *entity.Profile) bool {
		return candidate.Gender != gender
	}
}

// ExcludeSwiped drops profiles the requester already swiped, liked or not.
func ExcludeSwiped(swiped map[uuid.UUID]struct{}) Predicate {
	return func(candidate *entity.Profile) bool {
		_, seen := swiped[candidate.ID]

		return !seen
	}
}

// HasCoordinates drops profiles whose location was never geocoded.
func HasCoordinates() Predicate {
	return func(candidate *entity.Profile) bool {
		return candidate.Coordinates() != nil
	}
}

// WithinRadius keeps profiles strictly closer than radius to origin.
// Candidates without coordinates are dropped.
func WithinRadius(origin entity.Coordinates, radius Kilometers) Predicate {
	return func(candidate *entity.Profile) bool {
		coords := candidate.Coordinates()
		if coords == nil {
			return false
		}

		return Distance(origin, *coords) < radius
	}
}

// Random picks an index in [0, n).
type Random interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom uses the process-wide source of math/rand/v2.
func DefaultRandom() Random { return globalRandom{} }

// Engine selects the next candidate to show a requester.
type Engine struct {
	policy Policy
	random Random
}

// NewEngine creates an Engine. A nil random falls back to DefaultRandom.
func NewEngine(policy Policy, random Random) *Engine {
	if random == nil {
		random = DefaultRandom()
	}

	return &Engine{policy: policy, random: random}
}

// Eligible returns every profile of pool the requester may be shown, in pool order.
// swiped holds the ids the requester has already swiped.
func (e *Engine) Eligible(requester *entity.Profile, pool []*entity.Profile, swiped map[uuid.UUID]struct{}) ([]*entity.Profile, error) {
	origin := requester.Coordinates()
	if origin == nil {
		return nil, ErrRequesterUnlocated
	}

	radius := Kilometers(e.policy.Limits(requester).DiscoveryRadiusKm)
	keep := All(
		ExcludeSelf(requester),
		ExcludeGender(requester.Gender),
		ExcludeSwiped(swiped),
		HasCoordinates(),
		WithinRadius(*origin, radius),
	)

	eligible := make([]*entity.Profile, 0, len(pool))
	for _, candidate := range pool {
		if candidate != nil && keep(candidate) {
			eligible = append(eligible, candidate)
		}
	}

	return eligible, nil
}

// NextCandidate returns one eligible profile chosen uniformly at random,
// or nil when nobody is eligible.
func (e *Engine) NextCandidate(requester *entity.Profile, pool []*entity.Profile, swiped map[uuid.UUID]struct{}) (*entity.Profile, error) {
	eligible, err := e.Eligible(requester, pool, swiped)
	if err != nil {
		return nil, err
	}

	if len(eligible) == 0 {
		return nil, nil
	}

	return eligible[e.random.IntN(len(eligible))], nil
}
