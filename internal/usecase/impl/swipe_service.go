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
	"spark/internal/domain/service"
	"spark/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// swipeService implements the SwipeUsecase interface.
type swipeService struct {
	txManager repository.TransactionManager
	repos     repository.RepositoryFactory
	publisher service.EventPublisher
	policy    matching.Policy
	quotaLoc  *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

// SwipeServiceParams holds dependencies for SwipeService, injected by Fx.
type SwipeServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	Repositories repository.RepositoryFactory
	Publisher    service.EventPublisher
	Config       *config.Config
	Logger       *slog.Logger
}

// NewSwipeService is the constructor for swipeService.
func NewSwipeService(params SwipeServiceParams) (usecase.SwipeUsecase, error) {
	loc, err := quotaLocation(params.Config)
	if err != nil {
		return nil, err
	}

	return &swipeService{
		txManager: params.TxManager,
		repos:     params.Repositories,
		publisher: params.Publisher,
		policy:    newPolicy(params.Config),
		quotaLoc:  loc,
		logger:    params.Logger,
		now:       time.Now,
	}, nil
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *swipeService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RecordSwipe stores a decision and, on a mutual like, makes sure the pair has a chat.
// Quota, duplicate and target checks run in the same transaction as the insert,
// with both profile rows of the pair locked.
func (srv *swipeService) RecordSwipe(ctx context.Context, accountID uuid.UUID, input *usecase.RecordSwipeInput) (*usecase.SwipeOutput, error) {
	if input.Liked == nil {
		return nil, domainerrors.ErrMissingField.WithDetails("liked is required")
	}

	var (
		output      *usecase.SwipeOutput
		chatCreated bool
	)

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profiles := repoFactory.NewProfileRepository()
		swipes := repoFactory.NewSwipeRepository()

		owner, err := findOwnProfile(ctx, profiles, accountID)
		if err != nil {
			return err
		}

		swiper, target, err := lockPair(ctx, profiles, owner.ID, input.SwipedID)
		if err != nil {
			return err
		}

		if err := srv.checkQuota(ctx, swipes, swiper); err != nil {
			return err
		}

		existing, err := findSwipe(ctx, swipes, swiper.ID, input.SwipedID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domainerrors.ErrAlreadySwiped
		}

		if input.SwipedID == swiper.ID {
			return domainerrors.ErrInvalidTarget.WithDetails("profiles can't swipe themselves")
		}
		if target == nil {
			return domainerrors.ErrInvalidTarget
		}

		swipe := &entity.Swipe{
			ID:        uuid.New(),
			SwiperID:  swiper.ID,
			SwipedID:  input.SwipedID,
			Liked:     *input.Liked,
			CreatedAt: srv.now(),
		}
		if err := swipes.Create(ctx, swipe); err != nil {
			if errors.Is(err, repository.ErrDuplicateSwipe) {
				return domainerrors.ErrAlreadySwiped
			}

			return errors.Wrap(err, "failed to create swipe")
		}

		output = &usecase.SwipeOutput{Swipe: swipe}
		if !swipe.Liked {
			return nil
		}

		back, err := findSwipe(ctx, swipes, swipe.SwipedID, swipe.SwiperID)
		if err != nil {
			return err
		}
		if !matching.IsMatch(swipe, back) {
			return nil
		}

		chat, created, err := repoFactory.NewChatRepository().EnsureForPair(ctx, &entity.Chat{
			ID:        uuid.New(),
			User1ID:   swipe.SwiperID,
			User2ID:   swipe.SwipedID,
			CreatedAt: swipe.CreatedAt,
		})
		if err != nil {
			return errors.Wrap(err, "failed to ensure chat for match")
		}

		output.Matched = true
		output.Chat = chat
		chatCreated = created

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Swipe rejected", slog.Any("accountID", accountID), slog.Any("swipedID", input.SwipedID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute swipe transaction")
	}

	srv.log(ctx).Debug("Swipe recorded",
		slog.Any("swipeID", output.Swipe.ID),
		slog.Bool("liked", output.Swipe.Liked),
		slog.Bool("matched", output.Matched),
	)

	if chatCreated {
		srv.publishMatch(ctx, output.Chat)
	}

	return output, nil
}

// lockPair takes the row locks of the swiper and the target in pair order so
// that opposite swipes between the same two profiles run one after the other.
// The second one then reads the first one's like. A missing or unknown target
// yields a nil target; rejecting it is left to the caller.
func lockPair(ctx context.Context, profiles repository.ProfileRepository, swiperID, targetID uuid.UUID) (swiper, target *entity.Profile, err error) {
	pair := entity.NewProfilePair(swiperID, targetID)
	for _, id := range []uuid.UUID{pair.Low, pair.High} {
		if id == uuid.Nil || (swiper != nil && id == swiper.ID) {
			continue
		}

		profile, lockErr := profiles.LockForUpdate(ctx, id)
		switch {
		case id == swiperID && lockErr != nil:
			return nil, nil, errors.Wrap(lockErr, "failed to lock swiper profile")
		case errors.Is(lockErr, repository.ErrProfileNotFound):
			continue
		case lockErr != nil:
			return nil, nil, errors.Wrap(lockErr, "failed to lock swiped profile")
		case id == swiperID:
			swiper = profile
		default:
			target = profile
		}
	}

	return swiper, target, nil
}

// checkQuota counts the swiper's swipes within today's window of the quota timezone.
func (srv *swipeService) checkQuota(ctx context.Context, swipes repository.SwipeRepository, swiper *entity.Profile) error {
	limits := srv.policy.Limits(swiper)
	from, to := matching.DayWindow(srv.now(), srv.quotaLoc)

	count, err := swipes.CountBySwiperBetween(ctx, swiper.ID, from, to)
	if err != nil {
		return errors.Wrap(err, "failed to count swipes")
	}

	if count >= int64(limits.DailySwipeCap) {
		srv.log(ctx).Info("Swipe quota exhausted",
			slog.Any("profileID", swiper.ID),
			slog.String("tier", string(matching.TierOf(swiper))),
			slog.Int("cap", limits.DailySwipeCap),
		)

		return domainerrors.ErrQuotaExceeded
	}

	return nil
}

// publishMatch announces a new chat. The swipe is already committed, so failures are only logged.
func (srv *swipeService) publishMatch(ctx context.Context, chat *entity.Chat) {
	event := &service.MatchEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		ChatID:     chat.ID.String(),
		ProfileIDs: [2]string{chat.User1ID.String(), chat.User2ID.String()},
		MatchedAt:  chat.CreatedAt,
	}

	if err := srv.publisher.PublishMatchEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish match event", slog.String("chatID", event.ChatID), slog.Any("error", err))
	}
}

// ListMatches returns who liked the caller back.
func (srv *swipeService) ListMatches(ctx context.Context, accountID uuid.UUID) ([]*entity.Swipe, error) {
	profile, err := findOwnProfile(ctx, srv.repos.NewProfileRepository(), accountID)
	if err != nil {
		return nil, err
	}

	matches, err := srv.repos.NewSwipeRepository().ListLikesBack(ctx, profile.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list matches")
	}

	return matches, nil
}

// CanView reports whether two profiles have liked each other.
func (srv *swipeService) CanView(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error) {
	return isMutualMatch(ctx, srv.repos.NewSwipeRepository(), viewerID, targetID)
}
