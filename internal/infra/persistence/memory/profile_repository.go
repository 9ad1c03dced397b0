package memory

import (
	"context"
	"slices"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
)

type profileRepository struct {
	sess *session
}

// hydrate attaches the location and image ids of a stored profile.
func (d *dataset) hydrate(stored entity.Profile) *entity.Profile {
	profile := stored

	for _, location := range d.locations {
		if location.ProfileID == profile.ID {
			loc := location
			if loc.Coordinates != nil {
				coords := *loc.Coordinates
				loc.Coordinates = &coords
			}
			profile.Location = &loc

			break
		}
	}

	images := d.imagesOf(profile.ID)
	profile.ImageIDs = make([]uuid.UUID, 0, len(images))
	for _, image := range images {
		profile.ImageIDs = append(profile.ImageIDs, image.ID)
	}

	return &profile
}

func (repo *profileRepository) Create(_ context.Context, profile *entity.Profile) error {
	return repo.sess.run(func(d *dataset) error {
		if _, exists := d.profileByOwner[profile.AccountID]; exists {
			return repository.ErrProfileConflict
		}

		ensureID(&profile.ID)
		ensureTime(&profile.CreatedAt)
		profile.UpdatedAt = profile.CreatedAt

		stored := *profile
		stored.Location = nil
		stored.ImageIDs = nil
		d.profiles[profile.ID] = stored
		d.profileByOwner[profile.AccountID] = profile.ID

		return nil
	})
}

func (repo *profileRepository) find(id uuid.UUID) (*entity.Profile, error) {
	var found *entity.Profile
	err := repo.sess.run(func(d *dataset) error {
		stored, ok := d.profiles[id]
		if !ok {
			return repository.ErrProfileNotFound
		}
		found = d.hydrate(stored)

		return nil
	})

	return found, err
}

func (repo *profileRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Profile, error) {
	return repo.find(id)
}

// LockForUpdate is FindByID: the transaction already holds the store lock.
func (repo *profileRepository) LockForUpdate(_ context.Context, id uuid.UUID) (*entity.Profile, error) {
	return repo.find(id)
}

func (repo *profileRepository) FindByAccountID(_ context.Context, accountID uuid.UUID) (*entity.Profile, error) {
	var found *entity.Profile
	err := repo.sess.run(func(d *dataset) error {
		id, ok := d.profileByOwner[accountID]
		if !ok {
			return repository.ErrProfileNotFound
		}
		found = d.hydrate(d.profiles[id])

		return nil
	})

	return found, err
}

func (repo *profileRepository) Update(_ context.Context, profile *entity.Profile) error {
	return repo.sess.run(func(d *dataset) error {
		stored, ok := d.profiles[profile.ID]
		if !ok {
			return repository.ErrProfileNotFound
		}

		stored.Bio = profile.Bio
		stored.VIP = profile.VIP
		stored.UpdatedAt = time.Now()
		d.profiles[profile.ID] = stored
		profile.UpdatedAt = stored.UpdatedAt

		return nil
	})
}

func (repo *profileRepository) ListByGender(_ context.Context, gender entity.Gender) ([]*entity.Profile, error) {
	var profiles []*entity.Profile
	err := repo.sess.run(func(d *dataset) error {
		for _, stored := range d.profiles {
			if stored.Gender == gender {
				profiles = append(profiles, d.hydrate(stored))
			}
		}

		return nil
	})

	slices.SortFunc(profiles, func(a, b *entity.Profile) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return compareIDs(a.ID, b.ID)
	})

	return profiles, err
}
