package memory

import (
	"context"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
)

type swipeRepository struct {
	sess *session
}

func (repo *swipeRepository) Create(_ context.Context, swipe *entity.Swipe) error {
	return repo.sess.run(func(d *dataset) error {
		key := pairKey{swipe.SwiperID, swipe.SwipedID}
		if _, exists := d.swipeByPair[key]; exists {
			return repository.ErrDuplicateSwipe
		}

		ensureID(&swipe.ID)
		ensureTime(&swipe.CreatedAt)
		d.swipeByPair[key] = len(d.swipes)
		d.swipes = append(d.swipes, *swipe)

		return nil
	})
}

func (repo *swipeRepository) Find(_ context.Context, swiperID, swipedID uuid.UUID) (*entity.Swipe, error) {
	var found entity.Swipe
	err := repo.sess.run(func(d *dataset) error {
		idx, ok := d.swipeByPair[pairKey{swiperID, swipedID}]
		if !ok {
			return repository.ErrSwipeNotFound
		}
		found = d.swipes[idx]

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &found, nil
}

func (repo *swipeRepository) CountBySwiperBetween(_ context.Context, swiperID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := repo.sess.run(func(d *dataset) error {
		for _, swipe := range d.swipes {
			if swipe.SwiperID == swiperID && !swipe.CreatedAt.Before(from) && swipe.CreatedAt.Before(to) {
				count++
			}
		}

		return nil
	})

	return count, err
}

func (repo *swipeRepository) ListSwipedIDs(_ context.Context, swiperID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := repo.sess.run(func(d *dataset) error {
		for _, swipe := range d.swipes {
			if swipe.SwiperID == swiperID {
				ids = append(ids, swipe.SwipedID)
			}
		}

		return nil
	})

	return ids, err
}

func (repo *swipeRepository) ListLikesBack(_ context.Context, profileID uuid.UUID) ([]*entity.Swipe, error) {
	var result []*entity.Swipe
	err := repo.sess.run(func(d *dataset) error {
		liked := make(map[uuid.UUID]struct{})
		for _, swipe := range d.swipes {
			if swipe.SwiperID == profileID && swipe.Liked {
				liked[swipe.SwipedID] = struct{}{}
			}
		}

		for _, swipe := range d.swipes {
			if _, ok := liked[swipe.SwiperID]; ok && swipe.SwipedID == profileID && swipe.Liked {
				result = append(result, &swipe)
			}
		}

		return nil
	})

	return result, err
}
