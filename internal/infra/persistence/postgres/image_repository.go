package postgres

import (
	"context"

	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/repository"
	"spark/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// imageRepository implements the repository.ImageRepository interface.
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository is the constructor for imageRepository.
func NewImageRepository(db *gorm.DB) repository.ImageRepository {
	return &imageRepository{db: db}
}

// Create persists a new image record.
func (repo *imageRepository) Create(ctx context.Context, image *entity.Image) error {
	imageM := &model.ImageModel{
		ID:          image.ID,
		ProfileID:   image.ProfileID,
		ObjectKey:   image.Key,
		ContentType: image.ContentType,
		Size:        image.Size,
		Checksum:    image.Checksum,
		CreatedAt:   image.CreatedAt,
	}

	if err := repo.db.WithContext(ctx).Create(imageM).Error; err != nil {
		if constraintOf(err) == foreignKeyViolation {
			return repository.ErrProfileNotFound
		}

		return domainerrors.NewStorageError(err, "create image")
	}

	image.ID = imageM.ID
	image.CreatedAt = imageM.CreatedAt

	return nil
}

// FindByID retrieves an image record by its unique ID.
func (repo *imageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Image, error) {
	var imageM model.ImageModel

	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&imageM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrImageNotFound
		}

		return nil, errors.Wrap(err, "failed to find image")
	}

	return toImageDomain(&imageM), nil
}

// ListByProfileID returns the profile's images, oldest first.
func (repo *imageRepository) ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]*entity.Image, error) {
	var imageModels []*model.ImageModel

	if err := repo.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC, id ASC").
		Find(&imageModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list images")
	}

	images := make([]*entity.Image, 0, len(imageModels))
	for _, imageM := range imageModels {
		images = append(images, toImageDomain(imageM))
	}

	return images, nil
}

func toImageDomain(data *model.ImageModel) *entity.Image {
	return &entity.Image{
		ID:          data.ID,
		ProfileID:   data.ProfileID,
		Key:         data.ObjectKey,
		ContentType: data.ContentType,
		Size:        data.Size,
		Checksum:    data.Checksum,
		CreatedAt:   data.CreatedAt,
	}
}
