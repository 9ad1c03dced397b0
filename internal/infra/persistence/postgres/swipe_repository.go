package postgres

import (
	"context"
	"time"

	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/repository"
	"spark/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// swipeRepository implements the repository.SwipeRepository interface.
type swipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository is the constructor for swipeRepository.
func NewSwipeRepository(db *gorm.DB) repository.SwipeRepository {
	return &swipeRepository{db: db}
}

// Create appends a swipe. The unique (swiper_id, swiped_id) index rejects duplicates.
func (repo *swipeRepository) Create(ctx context.Context, swipe *entity.Swipe) error {
	swipeM := fromSwipeDomain(swipe)

	if err := repo.db.WithContext(ctx).Create(swipeM).Error; err != nil {
		if constraintOf(err) == uniqueViolation {
			return repository.ErrDuplicateSwipe
		}
		if constraintOf(err) == foreignKeyViolation {
			return repository.ErrProfileNotFound
		}

		return domainerrors.NewStorageError(err, "create swipe")
	}

	swipe.ID = swipeM.ID
	swipe.CreatedAt = swipeM.CreatedAt

	return nil
}

// Find returns the swipe swiperID made on swipedID.
func (repo *swipeRepository) Find(ctx context.Context, swiperID, swipedID uuid.UUID) (*entity.Swipe, error) {
	var swipeM model.SwipeModel

	if err := repo.db.WithContext(ctx).
		Where("swiper_id = ? AND swiped_id = ?", swiperID, swipedID).
		First(&swipeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSwipeNotFound
		}

		return nil, errors.Wrap(err, "failed to find swipe")
	}

	return toSwipeDomain(&swipeM), nil
}

// CountBySwiperBetween counts swipes authored by swiperID in [from, to).
func (repo *swipeRepository) CountBySwiperBetween(ctx context.Context, swiperID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.SwipeModel{}).
		Where("swiper_id = ? AND created_at >= ? AND created_at < ?", swiperID, from, to).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count swipes")
	}

	return count, nil
}

// ListSwipedIDs returns every profile id swiperID has swiped.
func (repo *swipeRepository) ListSwipedIDs(ctx context.Context, swiperID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	if err := repo.db.WithContext(ctx).
		Model(&model.SwipeModel{}).
		Where("swiper_id = ?", swiperID).
		Pluck("swiped_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list swiped profiles")
	}

	return ids, nil
}

// ListLikesBack returns liked swipes on profileID whose authors profileID liked too.
func (repo *swipeRepository) ListLikesBack(ctx context.Context, profileID uuid.UUID) ([]*entity.Swipe, error) {
	var swipeModels []*model.SwipeModel

	if err := repo.db.WithContext(ctx).
		Table("swipes AS theirs").
		Select("theirs.*").
		Joins("JOIN swipes AS mine ON mine.swiper_id = theirs.swiped_id AND mine.swiped_id = theirs.swiper_id AND mine.liked").
		Where("theirs.swiped_id = ? AND theirs.liked", profileID).
		Order("theirs.created_at ASC, theirs.id ASC").
		Find(&swipeModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list matches")
	}

	swipes := make([]*entity.Swipe, 0, len(swipeModels))
	for _, swipeM := range swipeModels {
		swipes = append(swipes, toSwipeDomain(swipeM))
	}

	return swipes, nil
}

func toSwipeDomain(data *model.SwipeModel) *entity.Swipe {
	return &entity.Swipe{
		ID:        data.ID,
		SwiperID:  data.SwiperID,
		SwipedID:  data.SwipedID,
		Liked:     data.Liked,
		CreatedAt: data.CreatedAt,
	}
}

func fromSwipeDomain(data *entity.Swipe) *model.SwipeModel {
	return &model.SwipeModel{
		ID:        data.ID,
		SwiperID:  data.SwiperID,
		SwipedID:  data.SwipedID,
		Liked:     data.Liked,
		CreatedAt: data.CreatedAt,
	}
}
