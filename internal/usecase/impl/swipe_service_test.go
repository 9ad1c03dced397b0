package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"spark/internal/domain/entity"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/domain/service"
	mockSvc "spark/internal/mocks/service"
	"spark/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type swipeServiceFixtures struct {
	*storeFixture
	service   usecase.SwipeUsecase
	publisher *mockSvc.MockEventPublisher
}

func createTestSwipeService(t *testing.T) swipeServiceFixtures {
	return createTestSwipeServiceOn(t, newStoreFixture())
}

func createTestSwipeServiceOn(t *testing.T, f *storeFixture) swipeServiceFixtures {
	publisher := mockSvc.NewMockEventPublisher(t)

	svc, err := NewSwipeService(SwipeServiceParams{
		TxManager:    f.txManager,
		Repositories: f.repos,
		Publisher:    publisher,
		Config:       f.cfg,
		Logger:       f.logger,
	})
	require.NoError(t, err)
	svc.(*swipeService).now = f.clock.Now

	return swipeServiceFixtures{storeFixture: f, service: svc, publisher: publisher}
}

func (fx swipeServiceFixtures) swipe(a, b *entity.Profile, liked bool) (*usecase.SwipeOutput, error) {
	return fx.service.RecordSwipe(context.Background(), a.AccountID, &usecase.RecordSwipeInput{
		SwipedID: b.ID,
		Liked:    boolPtr(liked),
	})
}

func (fx swipeServiceFixtures) countSwipes(t *testing.T, p *entity.Profile) int64 {
	t.Helper()

	count, err := fx.repos.NewSwipeRepository().CountBySwiperBetween(context.Background(), p.ID, time.Time{}, fx.clock.Now().Add(time.Hour))
	require.NoError(t, err)

	return count
}

func TestSwipeService_RecordSwipe_LikeWithoutMatch(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	out, err := fx.swipe(a, b, true)
	require.NoError(t, err)

	assert.False(t, out.Matched)
	assert.Nil(t, out.Chat)
	assert.Equal(t, a.ID, out.Swipe.SwiperID)
	assert.Equal(t, b.ID, out.Swipe.SwipedID)
	assert.Equal(t, fx.clock.Now(), out.Swipe.CreatedAt)

	matches, err := fx.service.ListMatches(context.Background(), b.AccountID)
	require.NoError(t, err)
	assert.Empty(t, matches)

	chats, err := fx.repos.NewChatRepository().ListForProfile(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestSwipeService_RecordSwipe_MutualLikeCreatesOneChat(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	var published *service.MatchEvent
	fx.publisher.EXPECT().
		PublishMatchEvent(mock.Anything, mock.AnythingOfType("*service.MatchEvent")).
		Run(func(_ context.Context, event *service.MatchEvent) { published = event }).
		Return(nil).
		Once()

	_, err := fx.swipe(b, a, true)
	require.NoError(t, err)

	out, err := fx.swipe(a, b, true)
	require.NoError(t, err)

	require.True(t, out.Matched)
	require.NotNil(t, out.Chat)
	assert.True(t, out.Chat.HasParticipant(a.ID))
	assert.True(t, out.Chat.HasParticipant(b.ID))

	chats, err := fx.repos.NewChatRepository().ListForProfile(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)

	require.NotNil(t, published)
	assert.Equal(t, out.Chat.ID.String(), published.ChatID)
	assert.ElementsMatch(t, []string{a.ID.String(), b.ID.String()}, published.ProfileIDs[:])

	matchesOfA, err := fx.service.ListMatches(context.Background(), a.AccountID)
	require.NoError(t, err)
	require.Len(t, matchesOfA, 1)
	assert.Equal(t, b.ID, matchesOfA[0].SwiperID)

	matchesOfB, err := fx.service.ListMatches(context.Background(), b.AccountID)
	require.NoError(t, err)
	require.Len(t, matchesOfB, 1)
	assert.Equal(t, a.ID, matchesOfB[0].SwiperID)
}

func TestSwipeService_RecordSwipe_ExistingChatIsReused(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	// A chat for the pair exists before the match completes through the service.
	existing, _, err := fx.repos.NewChatRepository().EnsureForPair(context.Background(), &entity.Chat{
		ID: uuid.New(), User1ID: b.ID, User2ID: a.ID,
	})
	require.NoError(t, err)
	fx.seedSwipe(t, b, a, true)

	out, err := fx.swipe(a, b, true)
	require.NoError(t, err)

	assert.True(t, out.Matched)
	assert.Equal(t, existing.ID, out.Chat.ID)

	chats, err := fx.repos.NewChatRepository().ListForProfile(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestSwipeService_RecordSwipe_DislikeNeverMatches(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	fx.seedSwipe(t, b, a, true)

	out, err := fx.swipe(a, b, false)
	require.NoError(t, err)
	assert.False(t, out.Matched)

	canView, err := fx.service.CanView(context.Background(), a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, canView)
}

func TestSwipeService_RecordSwipe_QuotaExceeded(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	capacity := fx.cfg.Subscription.Basic.DailySwipes

	for i := range capacity {
		target := fx.seedProfile(t, entity.GenderFemale, taipei)
		_, err := fx.swipe(a, target, i%2 == 0)
		require.NoError(t, err)
	}

	extra := fx.seedProfile(t, entity.GenderFemale, taipei)
	_, err := fx.swipe(a, extra, false)

	assert.ErrorIs(t, err, domainerrors.ErrQuotaExceeded)
	assert.Equal(t, int64(capacity), fx.countSwipes(t, a))
}

func TestSwipeService_RecordSwipe_VIPQuota(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	a.VIP = true
	require.NoError(t, fx.repos.NewProfileRepository().Update(context.Background(), a))

	capacity := fx.cfg.Subscription.VIP.DailySwipes
	for range capacity {
		_, err := fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), true)
		require.NoError(t, err)
	}

	_, err := fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), true)
	assert.ErrorIs(t, err, domainerrors.ErrQuotaExceeded)
	assert.Equal(t, int64(capacity), fx.countSwipes(t, a))
}

func TestSwipeService_RecordSwipe_QuotaResetsNextDay(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)

	for range fx.cfg.Subscription.Basic.DailySwipes {
		_, err := fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), false)
		require.NoError(t, err)
	}

	_, err := fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), false)
	require.ErrorIs(t, err, domainerrors.ErrQuotaExceeded)

	fx.clock.Advance(12 * time.Hour)

	_, err = fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), false)
	assert.NoError(t, err)
}

func TestSwipeService_RecordSwipe_QuotaCheckedBeforeDuplicate(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	first := fx.seedProfile(t, entity.GenderFemale, taipei)

	_, err := fx.swipe(a, first, false)
	require.NoError(t, err)
	for range fx.cfg.Subscription.Basic.DailySwipes - 1 {
		_, err := fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), false)
		require.NoError(t, err)
	}

	_, err = fx.swipe(a, first, true)
	assert.ErrorIs(t, err, domainerrors.ErrQuotaExceeded)
}

func TestSwipeService_RecordSwipe_QuotaCheckedBeforeTarget(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	for range fx.cfg.Subscription.Basic.DailySwipes {
		_, err := fx.swipe(a, fx.seedProfile(t, entity.GenderFemale, taipei), false)
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		swipedID uuid.UUID
	}{
		{name: "missing target", swipedID: uuid.Nil},
		{name: "unknown target", swipedID: uuid.New()},
		{name: "self", swipedID: a.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.RecordSwipe(context.Background(), a.AccountID, &usecase.RecordSwipeInput{
				SwipedID: tt.swipedID,
				Liked:    boolPtr(true),
			})
			assert.ErrorIs(t, err, domainerrors.ErrQuotaExceeded)
		})
	}
}

func TestSwipeService_RecordSwipe_LocksPairInOrder(t *testing.T) {
	f := newStoreFixture()
	locks := f.recordLocks()
	fx := createTestSwipeServiceOn(t, f)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)
	pair := entity.NewProfilePair(a.ID, b.ID)

	fx.publisher.EXPECT().
		PublishMatchEvent(mock.Anything, mock.Anything).
		Return(nil).
		Once()

	_, err := fx.swipe(a, b, true)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{pair.Low, pair.High}, locks.lockedProfiles())

	locks.reset()
	out, err := fx.swipe(b, a, true)
	require.NoError(t, err)
	assert.True(t, out.Matched)
	assert.Equal(t, []uuid.UUID{pair.Low, pair.High}, locks.lockedProfiles(), "both directions lock in the same order")
}

func TestSwipeService_RecordSwipe_LocksOnlyKnownProfiles(t *testing.T) {
	f := newStoreFixture()
	locks := f.recordLocks()
	fx := createTestSwipeServiceOn(t, f)
	a := fx.seedProfile(t, entity.GenderMale, taipei)

	_, err := fx.service.RecordSwipe(context.Background(), a.AccountID, &usecase.RecordSwipeInput{Liked: boolPtr(true)})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTarget)
	assert.Equal(t, []uuid.UUID{a.ID}, locks.lockedProfiles())

	locks.reset()
	_, err = fx.service.RecordSwipe(context.Background(), a.AccountID, &usecase.RecordSwipeInput{SwipedID: a.ID, Liked: boolPtr(true)})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTarget)
	assert.Equal(t, []uuid.UUID{a.ID}, locks.lockedProfiles(), "a self swipe locks its row once")

	locks.reset()
	unknown := uuid.New()
	pair := entity.NewProfilePair(a.ID, unknown)
	_, err = fx.service.RecordSwipe(context.Background(), a.AccountID, &usecase.RecordSwipeInput{SwipedID: unknown, Liked: boolPtr(true)})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTarget)
	assert.Equal(t, []uuid.UUID{pair.Low, pair.High}, locks.lockedProfiles())
	assert.Zero(t, fx.countSwipes(t, a))
}

func TestSwipeService_RecordSwipe_Duplicate(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	first, err := fx.swipe(a, b, false)
	require.NoError(t, err)

	_, err = fx.swipe(a, b, true)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadySwiped)

	stored, err := fx.repos.NewSwipeRepository().Find(context.Background(), a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Swipe.ID, stored.ID)
	assert.False(t, stored.Liked)
	assert.Equal(t, int64(1), fx.countSwipes(t, a))
}

func TestSwipeService_RecordSwipe_Validation(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	tests := []struct {
		name  string
		input *usecase.RecordSwipeInput
		want  error
	}{
		{
			name:  "missing liked",
			input: &usecase.RecordSwipeInput{SwipedID: b.ID},
			want:  domainerrors.ErrMissingField,
		},
		{
			name:  "missing target",
			input: &usecase.RecordSwipeInput{Liked: boolPtr(true)},
			want:  domainerrors.ErrInvalidTarget,
		},
		{
			name:  "unknown target",
			input: &usecase.RecordSwipeInput{SwipedID: uuid.New(), Liked: boolPtr(true)},
			want:  domainerrors.ErrInvalidTarget,
		},
		{
			name:  "self",
			input: &usecase.RecordSwipeInput{SwipedID: a.ID, Liked: boolPtr(true)},
			want:  domainerrors.ErrInvalidTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.RecordSwipe(context.Background(), a.AccountID, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Zero(t, fx.countSwipes(t, a))
}

func TestSwipeService_RecordSwipe_UnknownAccount(t *testing.T) {
	fx := createTestSwipeService(t)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	_, err := fx.service.RecordSwipe(context.Background(), uuid.New(), &usecase.RecordSwipeInput{SwipedID: b.ID, Liked: boolPtr(true)})
	assert.ErrorIs(t, err, domainerrors.ErrProfileNotFound)
}

func TestSwipeService_RecordSwipe_PublishFailureKeepsSwipe(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)
	fx.seedSwipe(t, b, a, true)

	fx.publisher.EXPECT().
		PublishMatchEvent(mock.Anything, mock.Anything).
		Return(errors.New("broker down")).
		Once()

	out, err := fx.swipe(a, b, true)
	require.NoError(t, err)
	assert.True(t, out.Matched)

	_, err = fx.repos.NewChatRepository().FindByPair(context.Background(), a.ID, b.ID)
	assert.NoError(t, err)
}

func TestSwipeService_RecordSwipe_ConcurrentQuota(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	capacity := fx.cfg.Subscription.Basic.DailySwipes

	targets := make([]*entity.Profile, capacity*4)
	for i := range targets {
		targets[i] = fx.seedProfile(t, entity.GenderFemale, taipei)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for _, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := fx.swipe(a, target, false)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, domainerrors.ErrQuotaExceeded) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, len(targets)-capacity, rejected)
	assert.Equal(t, int64(capacity), fx.countSwipes(t, a))
}

func TestSwipeService_RecordSwipe_ConcurrentMutualLikes(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)

	fx.publisher.EXPECT().
		PublishMatchEvent(mock.Anything, mock.Anything).
		Return(nil).
		Once()

	var wg sync.WaitGroup
	results := make([]*usecase.SwipeOutput, 2)
	pairs := [][2]*entity.Profile{{a, b}, {b, a}}
	for i, pair := range pairs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			out, err := fx.swipe(pair[0], pair[1], true)
			assert.NoError(t, err)
			results[i] = out
		}()
	}
	wg.Wait()

	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.NotEqual(t, results[0].Matched, results[1].Matched, "exactly one swipe completes the match")

	chats, err := fx.repos.NewChatRepository().ListForProfile(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Len(t, chats, 1)
}

func TestSwipeService_CanView_Symmetric(t *testing.T) {
	fx := createTestSwipeService(t)
	a := fx.seedProfile(t, entity.GenderMale, taipei)
	b := fx.seedProfile(t, entity.GenderFemale, taipei)
	c := fx.seedProfile(t, entity.GenderFemale, taipei)

	fx.seedMatch(t, a, b)
	fx.seedSwipe(t, a, c, true)

	tests := []struct {
		viewer, target *entity.Profile
		want           bool
	}{
		{a, b, true},
		{b, a, true},
		{a, c, false},
		{c, a, false},
	}

	for _, tt := range tests {
		got, err := fx.service.CanView(context.Background(), tt.viewer.ID, tt.target.ID)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
