package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"spark/config"
	deliverycontext "spark/internal/delivery/context"
	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/matching"
	"spark/internal/domain/repository"
	"spark/internal/domain/service"
	"spark/internal/usecase"
	"spark/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// locationService implements the LocationUsecase interface.
type locationService struct {
	txManager repository.TransactionManager
	repos     repository.RepositoryFactory
	geocoder  service.Geocoder
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// LocationServiceParams holds dependencies for LocationService, injected by Fx.
type LocationServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Repositories repository.RepositoryFactory
	Geocoder     service.Geocoder
	Config       *config.Config
	Logger       *slog.Logger
}

// NewLocationService creates a new location service instance
func NewLocationService(params LocationServiceParams) usecase.LocationUsecase {
	return &locationService{
		txManager: params.TxManager,
		repos:     params.Repositories,
		geocoder:  params.Geocoder,
		interval:  params.Config.Location.UpdateInterval,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *locationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetOwnLocation returns the location of the caller's profile.
func (srv *locationService) GetOwnLocation(ctx context.Context, accountID uuid.UUID) (*entity.Location, error) {
	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, err
	}

	location, err := srv.repos.NewLocationRepository().FindByProfileID(ctx, profile.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrLocationNotFound, "profile has no location")
		}

		return nil, errors.Wrap(err, "failed to find location")
	}

	return location, nil
}

// UpdateLocation geocodes placeName and stores it on the caller's location.
// The first update is always allowed; later ones wait for the configured interval.
func (srv *locationService) UpdateLocation(ctx context.Context, accountID, locationID uuid.UUID, placeName string) (*entity.Location, error) {
	location, err := srv.loadOwnedLocation(ctx, accountID, locationID)
	if err != nil {
		return nil, err
	}

	if err := srv.checkInterval(location); err != nil {
		return nil, err
	}

	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return nil, domainerrors.ErrMissingField.WithDetails("location is required")
	}

	// The lookup is the slow external call; it runs outside the transaction.
	coords, err := srv.geocoder.Geocode(ctx, placeName)
	if err != nil {
		srv.log(ctx).Warn("Geocoding failed", slog.String("place", placeName), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrGeocodeFailure, err.Error())
	}

	var updated *entity.Location
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		locations := repoFactory.NewLocationRepository()

		// Re-read with the row locked so that a concurrent update waits for this one.
		current, err := locations.LockForUpdate(ctx, locationID)
		if err != nil {
			return errors.Wrap(err, "failed to lock location")
		}
		if err := srv.checkInterval(current); err != nil {
			return err
		}

		current.PlaceName = placeName
		current.Coordinates = &coords
		current.LastUpdated = srv.now()

		if err := locations.Update(ctx, current); err != nil {
			return errors.Wrap(err, "failed to update location")
		}
		updated = current

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute location update transaction")
	}

	srv.log(ctx).Info("Location updated",
		slog.Any("locationID", updated.ID),
		slog.String("place", updated.PlaceName),
	)

	return updated, nil
}

func (srv *locationService) loadOwnedLocation(ctx context.Context, accountID, locationID uuid.UUID) (*entity.Location, error) {
	location, err := srv.repos.NewLocationRepository().FindByID(ctx, locationID)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrLocationNotFound, "update failed")
		}

		return nil, errors.Wrap(err, "failed to find location")
	}

	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, err
	}

	if location.ProfileID != profile.ID {
		return nil, errors.Wrap(domainerrors.ErrNotSelf, "update failed")
	}

	return location, nil
}

func (srv *locationService) checkInterval(location *entity.Location) error {
	if !location.HasPlace() {
		return nil
	}

	wait := matching.Remaining(location.LastUpdated, srv.now(), srv.interval)
	if wait > 0 {
		return domainerrors.ErrLocationTooSoon.WithDetails("next update available in " + util.FormatDuration(wait))
	}

	return nil
}
