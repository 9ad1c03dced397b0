package memory

import (
	"context"
	"slices"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
)

type locationRepository struct {
	sess *session
}

func copyLocation(location entity.Location) *entity.Location {
	out := location
	if location.Coordinates != nil {
		coords := *location.Coordinates
		out.Coordinates = &coords
	}

	return &out
}

func (repo *locationRepository) Create(_ context.Context, location *entity.Location) error {
	return repo.sess.run(func(d *dataset) error {
		if _, ok := d.profiles[location.ProfileID]; !ok {
			return repository.ErrProfileNotFound
		}

		ensureID(&location.ID)
		d.locations[location.ID] = *copyLocation(*location)

		return nil
	})
}

func (repo *locationRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Location, error) {
	var found *entity.Location
	err := repo.sess.run(func(d *dataset) error {
		location, ok := d.locations[id]
		if !ok {
			return repository.ErrLocationNotFound
		}
		found = copyLocation(location)

		return nil
	})

	return found, err
}

// LockForUpdate is FindByID: the transaction already holds the store lock.
func (repo *locationRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	return repo.FindByID(ctx, id)
}

func (repo *locationRepository) FindByProfileID(_ context.Context, profileID uuid.UUID) (*entity.Location, error) {
	var found *entity.Location
	err := repo.sess.run(func(d *dataset) error {
		for _, location := range d.locations {
			if location.ProfileID == profileID {
				found = copyLocation(location)

				return nil
			}
		}

		return repository.ErrLocationNotFound
	})

	return found, err
}

func (repo *locationRepository) Update(_ context.Context, location *entity.Location) error {
	return repo.sess.run(func(d *dataset) error {
		if _, ok := d.locations[location.ID]; !ok {
			return repository.ErrLocationNotFound
		}
		d.locations[location.ID] = *copyLocation(*location)

		return nil
	})
}

type imageRepository struct {
	sess *session
}

func (d *dataset) imagesOf(profileID uuid.UUID) []entity.Image {
	var images []entity.Image
	for _, image := range d.images {
		if image.ProfileID == profileID {
			images = append(images, image)
		}
	}

	slices.SortFunc(images, func(a, b entity.Image) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return compareIDs(a.ID, b.ID)
	})

	return images
}

func (repo *imageRepository) Create(_ context.Context, image *entity.Image) error {
	return repo.sess.run(func(d *dataset) error {
		if _, ok := d.profiles[image.ProfileID]; !ok {
			return repository.ErrProfileNotFound
		}

		ensureID(&image.ID)
		ensureTime(&image.CreatedAt)
		d.images[image.ID] = *image

		return nil
	})
}

func (repo *imageRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Image, error) {
	var found entity.Image
	err := repo.sess.run(func(d *dataset) error {
		image, ok := d.images[id]
		if !ok {
			return repository.ErrImageNotFound
		}
		found = image

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &found, nil
}

func (repo *imageRepository) ListByProfileID(_ context.Context, profileID uuid.UUID) ([]*entity.Image, error) {
	var images []*entity.Image
	err := repo.sess.run(func(d *dataset) error {
		for _, image := range d.imagesOf(profileID) {
			images = append(images, &image)
		}

		return nil
	})

	return images, err
}
