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
	"gorm.io/gorm/clause"
)

// profileRepository implements the repository.ProfileRepository interface.
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository is the constructor for profileRepository.
func NewProfileRepository(db *gorm.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

// withRelations preloads the location and the images ordered oldest first.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Location").
		Preload("Images", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		})
}

// Create persists a new profile.
func (repo *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	profileM := fromProfileDomain(profile)

	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(profileM).Error; err != nil {
		if constraintOf(err) == uniqueViolation {
			return repository.ErrProfileConflict
		}
		if constraintOf(err) == checkViolation {
			return domainerrors.ErrValidationFailed.WithDetails("invalid gender")
		}
		if constraintOf(err) == foreignKeyViolation {
			return domainerrors.ErrValidationFailed.WithDetails("invalid account reference")
		}

		return domainerrors.NewStorageError(err, "create profile")
	}

	profile.ID = profileM.ID
	profile.CreatedAt = profileM.CreatedAt
	profile.UpdatedAt = profileM.UpdatedAt

	return nil
}

func (repo *profileRepository) first(db *gorm.DB, query string, arg any) (*entity.Profile, error) {
	var profileM model.ProfileModel

	if err := withRelations(db).Where(query, arg).First(&profileM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProfileNotFound
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	return toProfileDomain(&profileM), nil
}

// FindByID retrieves a profile with its location and images.
func (repo *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return repo.first(repo.db.WithContext(ctx), "id = ?", id)
}

// FindByAccountID retrieves the profile owned by the account.
func (repo *profileRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error) {
	return repo.first(repo.db.WithContext(ctx), "account_id = ?", accountID)
}

// LockForUpdate reads the profile with SELECT ... FOR UPDATE.
func (repo *profileRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return repo.first(repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), "id = ?", id)
}

// Update writes bio and vip.
func (repo *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	now := time.Now()
	result := repo.db.WithContext(ctx).
		Model(&model.ProfileModel{}).
		Where("id = ?", profile.ID).
		Updates(map[string]any{
			"bio":        profile.Bio,
			"vip":        profile.VIP,
			"updated_at": now,
		})
	if result.Error != nil {
		return domainerrors.NewStorageError(result.Error, "update profile")
	}
	if result.RowsAffected == 0 {
		return repository.ErrProfileNotFound
	}

	profile.UpdatedAt = now

	return nil
}

// ListByGender returns every profile of gender with its location, oldest first.
func (repo *profileRepository) ListByGender(ctx context.Context, gender entity.Gender) ([]*entity.Profile, error) {
	var profileModels []*model.ProfileModel

	if err := withRelations(repo.db.WithContext(ctx)).
		Where("gender = ?", gender.String()).
		Order("created_at ASC, id ASC").
		Find(&profileModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list profiles by gender")
	}

	profiles := make([]*entity.Profile, 0, len(profileModels))
	for _, profileM := range profileModels {
		profiles = append(profiles, toProfileDomain(profileM))
	}

	return profiles, nil
}

func toProfileDomain(data *model.ProfileModel) *entity.Profile {
	profile := &entity.Profile{
		ID:        data.ID,
		AccountID: data.AccountID,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Bio:       data.Bio,
		Gender:    entity.Gender(data.Gender),
		VIP:       data.VIP,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	if data.Location != nil {
		profile.Location = toLocationDomain(data.Location)
	}

	profile.ImageIDs = make([]uuid.UUID, 0, len(data.Images))
	for _, image := range data.Images {
		profile.ImageIDs = append(profile.ImageIDs, image.ID)
	}

	return profile
}

func fromProfileDomain(data *entity.Profile) *model.ProfileModel {
	return &model.ProfileModel{
		ID:        data.ID,
		AccountID: data.AccountID,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Bio:       data.Bio,
		Gender:    data.Gender.String(),
		VIP:       data.VIP,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
