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
	"gorm.io/gorm/clause"
)

// locationRepository implements the repository.LocationRepository interface.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

// Create persists a new location.
func (repo *locationRepository) Create(ctx context.Context, location *entity.Location) error {
	locationM := fromLocationDomain(location)

	if err := repo.db.WithContext(ctx).Create(locationM).Error; err != nil {
		if constraintOf(err) == foreignKeyViolation {
			return repository.ErrProfileNotFound
		}
		if constraintOf(err) == checkViolation {
			return domainerrors.ErrValidationFailed.WithDetails("latitude and longitude must be set together")
		}

		return domainerrors.NewStorageError(err, "create location")
	}

	location.ID = locationM.ID

	return nil
}

// FindByID retrieves a location by its unique ID.
func (repo *locationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	return repo.first(repo.db.WithContext(ctx), "id = ?", id)
}

// LockForUpdate retrieves a location with SELECT ... FOR UPDATE.
func (repo *locationRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	return repo.first(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), "id = ?", id)
}

// FindByProfileID retrieves the location of a profile.
func (repo *locationRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*entity.Location, error) {
	return repo.first(repo.db.WithContext(ctx), "profile_id = ?", profileID)
}

func (repo *locationRepository) first(db *gorm.DB, query string, arg any) (*entity.Location, error) {
	var locationM model.LocationModel

	if err := db.Where(query, arg).First(&locationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationNotFound
		}

		return nil, errors.Wrap(err, "failed to find location")
	}

	return toLocationDomain(&locationM), nil
}

// Update overwrites place name, coordinates and last update time.
func (repo *locationRepository) Update(ctx context.Context, location *entity.Location) error {
	locationM := fromLocationDomain(location)

	result := repo.db.WithContext(ctx).
		Model(&model.LocationModel{}).
		Where("id = ?", location.ID).
		Select("place_name", "latitude", "longitude", "last_updated").
		Updates(locationM)
	if result.Error != nil {
		return domainerrors.NewStorageError(result.Error, "update location")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLocationNotFound
	}

	return nil
}

func toLocationDomain(data *model.LocationModel) *entity.Location {
	location := &entity.Location{
		ID:        data.ID,
		ProfileID: data.ProfileID,
		PlaceName: data.PlaceName,
	}

	if data.Latitude != nil && data.Longitude != nil {
		location.Coordinates = &entity.Coordinates{Latitude: *data.Latitude, Longitude: *data.Longitude}
	}

	if data.LastUpdated != nil {
		location.LastUpdated = *data.LastUpdated
	}

	return location
}

func fromLocationDomain(data *entity.Location) *model.LocationModel {
	locationM := &model.LocationModel{
		ID:        data.ID,
		ProfileID: data.ProfileID,
		PlaceName: data.PlaceName,
	}

	if data.Coordinates != nil {
		lat, lng := data.Coordinates.Latitude, data.Coordinates.Longitude
		locationM.Latitude = &lat
		locationM.Longitude = &lng
	}

	if !data.LastUpdated.IsZero() {
		lastUpdated := data.LastUpdated
		locationM.LastUpdated = &lastUpdated
	}

	return locationM
}
