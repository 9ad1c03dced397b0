package impl

import (
	"context"
	"log/slog"
	"time"

	"spark/config"
	deliverycontext "spark/internal/delivery/context"
	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/matching"
	"spark/internal/domain/repository"
	"spark/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	txManager repository.TransactionManager
	repos     repository.RepositoryFactory
	engine    *matching.Engine
	logger    *slog.Logger
	now       func() time.Time
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Repositories repository.RepositoryFactory
	Config       *config.Config
	Logger       *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		txManager: params.TxManager,
		repos:     params.Repositories,
		engine:    matching.NewEngine(newPolicy(params.Config), matching.DefaultRandom()),
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetOwnProfile returns the caller's profile.
func (srv *profileService) GetOwnProfile(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error) {
	return findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
}

// UpdateProfile applies bio and vip changes to the caller's own profile.
func (srv *profileService) UpdateProfile(ctx context.Context, accountID, profileID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	var updated *entity.Profile

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profiles := repoFactory.NewProfileRepository()

		profile, err := profiles.FindByID(ctx, profileID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				return errors.Wrap(domainerrors.ErrProfileNotFound, "update failed")
			}

			return errors.Wrap(err, "failed to find profile")
		}

		if profile.AccountID != accountID {
			return errors.Wrap(domainerrors.ErrNotSelf, "update failed")
		}

		if input.Bio != nil {
			profile.Bio = *input.Bio
		}
		if input.VIP != nil {
			profile.VIP = *input.VIP
		}
		profile.UpdatedAt = srv.now()

		if err := profiles.Update(ctx, profile); err != nil {
			return errors.Wrap(err, "failed to update profile")
		}
		updated = profile

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Profile update failed", slog.Any("profileID", profileID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute profile update transaction")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("profileID", updated.ID), slog.Bool("vip", updated.VIP))

	return updated, nil
}

// ViewProfile returns a profile the caller is allowed to see.
func (srv *profileService) ViewProfile(ctx context.Context, accountID, targetID uuid.UUID) (*entity.Profile, error) {
	profiles := srv.repos.NewProfileRepository()

	viewer, err := findOwnProfile(ctx, profiles, accountID)
	if err != nil {
		return nil, err
	}

	target, err := profiles.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProfileNotFound, "view failed")
		}

		return nil, errors.Wrap(err, "failed to find profile")
	}

	if target.ID == viewer.ID {
		return target, nil
	}

	matched, err := isMutualMatch(ctx, srv.repos.NewSwipeRepository(), viewer.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, errors.Wrap(domainerrors.ErrNotMatched, "view failed")
	}

	return target, nil
}

// Discover picks one eligible candidate for the caller.
func (srv *profileService) Discover(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error) {
	profiles := srv.repos.NewProfileRepository()

	requester, err := findOwnProfile(ctx, profiles, accountID)
	if err != nil {
		return nil, err
	}

	if requester.Coordinates() == nil {
		return nil, errors.Wrap(domainerrors.ErrLocationRequired, "discovery needs a located profile")
	}

	pool, err := profiles.ListByGender(ctx, requester.Gender.Opposite())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list candidates")
	}

	swipedIDs, err := srv.repos.NewSwipeRepository().ListSwipedIDs(ctx, requester.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list swiped profiles")
	}

	swiped := make(map[uuid.UUID]struct{}, len(swipedIDs))
	for _, id := range swipedIDs {
		swiped[id] = struct{}{}
	}

	candidate, err := srv.engine.NextCandidate(requester, pool, swiped)
	if err != nil {
		if errors.Is(err, matching.ErrRequesterUnlocated) {
			return nil, errors.Wrap(domainerrors.ErrLocationRequired, "discovery needs a located profile")
		}

		return nil, errors.Wrap(err, "failed to pick candidate")
	}

	srv.log(ctx).Debug("Discovery finished",
		slog.Any("profileID", requester.ID),
		slog.Int("pool", len(pool)),
		slog.Int("swiped", len(swiped)),
		slog.Bool("found", candidate != nil),
	)

	return candidate, nil
}
