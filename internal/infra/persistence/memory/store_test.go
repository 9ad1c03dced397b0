package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProfile(t *testing.T, repos repository.RepositoryFactory, gender entity.Gender) *entity.Profile {
	t.Helper()

	profile := &entity.Profile{AccountID: uuid.New(), Gender: gender}
	require.NoError(t, repos.NewProfileRepository().Create(context.Background(), profile))

	return profile
}

func TestTransactionRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := NewStore()
	txManager := NewTransactionManager(store)
	ctx := context.Background()
	a := seedProfile(t, store.Repositories(), entity.GenderMale)
	b := seedProfile(t, store.Repositories(), entity.GenderFemale)

	boom := errors.New("boom")
	err := txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
		require.NoError(t, repos.NewSwipeRepository().Create(ctx, &entity.Swipe{SwiperID: a.ID, SwipedID: b.ID, Liked: true}))

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Repositories().NewSwipeRepository().Find(ctx, a.ID, b.ID)
	assert.ErrorIs(t, err, repository.ErrSwipeNotFound)
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	t.Parallel()

	store := NewStore()
	txManager := NewTransactionManager(store)
	ctx := context.Background()
	a := seedProfile(t, store.Repositories(), entity.GenderMale)
	b := seedProfile(t, store.Repositories(), entity.GenderFemale)

	assert.Panics(t, func() {
		_ = txManager.Execute(ctx, func(repos repository.RepositoryFactory) error {
			_ = repos.NewSwipeRepository().Create(ctx, &entity.Swipe{SwiperID: a.ID, SwipedID: b.ID})
			panic("boom")
		})
	})

	ids, err := store.Repositories().NewSwipeRepository().ListSwipedIDs(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSwipeRepository(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repos := store.Repositories()
	swipes := repos.NewSwipeRepository()
	ctx := context.Background()

	a := seedProfile(t, repos, entity.GenderMale)
	b := seedProfile(t, repos, entity.GenderFemale)
	c := seedProfile(t, repos, entity.GenderFemale)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, swipes.Create(ctx, &entity.Swipe{SwiperID: a.ID, SwipedID: b.ID, Liked: true, CreatedAt: day.Add(time.Hour)}))
	require.NoError(t, swipes.Create(ctx, &entity.Swipe{SwiperID: a.ID, SwipedID: c.ID, Liked: true, CreatedAt: day.Add(-time.Hour)}))
	require.NoError(t, swipes.Create(ctx, &entity.Swipe{SwiperID: b.ID, SwipedID: a.ID, Liked: true, CreatedAt: day.Add(2 * time.Hour)}))
	require.NoError(t, swipes.Create(ctx, &entity.Swipe{SwiperID: c.ID, SwipedID: a.ID, Liked: false, CreatedAt: day.Add(2 * time.Hour)}))

	t.Run("duplicate ordered pair is rejected", func(t *testing.T) {
		err := swipes.Create(ctx, &entity.Swipe{SwiperID: a.ID, SwipedID: b.ID, Liked: false})
		assert.ErrorIs(t, err, repository.ErrDuplicateSwipe)

		stored, err := swipes.Find(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.Liked)
	})

	t.Run("count uses a half-open window", func(t *testing.T) {
		count, err := swipes.CountBySwiperBetween(ctx, a.ID, day, day.Add(24*time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("likes back only include mutual likes", func(t *testing.T) {
		back, err := swipes.ListLikesBack(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, back, 1)
		assert.Equal(t, b.ID, back[0].SwiperID)

		back, err = swipes.ListLikesBack(ctx, c.ID)
		require.NoError(t, err)
		assert.Empty(t, back)
	})
}

func TestChatRepositoryEnsureForPair(t *testing.T) {
	t.Parallel()

	store := NewStore()
	chats := store.Repositories().NewChatRepository()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	first, created, err := chats.EnsureForPair(ctx, &entity.Chat{User1ID: a, User2ID: b})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := chats.EnsureForPair(ctx, &entity.Chat{User1ID: b, User2ID: a})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, a, second.User1ID)

	found, err := chats.FindByPair(ctx, b, a)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	listed, err := chats.ListForProfile(ctx, b)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestChatRepositoryListMessagesNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewStore()
	chats := store.Repositories().NewChatRepository()
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()
	chat, _, err := chats.EnsureForPair(ctx, &entity.Chat{User1ID: a, User2ID: b})
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, body := range []string{"first", "second", "third"} {
		require.NoError(t, chats.CreateMessage(ctx, &entity.Message{
			ChatID: chat.ID, SenderID: a, Body: body, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	err = chats.CreateMessage(ctx, &entity.Message{ChatID: uuid.New(), SenderID: a, Body: "lost"})
	assert.ErrorIs(t, err, repository.ErrChatNotFound)

	messages, err := chats.ListMessages(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "third", messages[0].Body)
	assert.Equal(t, "second", messages[1].Body)
	assert.Equal(t, "first", messages[2].Body)
}

func TestProfileRepositoryHydratesLocationAndImages(t *testing.T) {
	t.Parallel()

	store := NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	profile := seedProfile(t, repos, entity.GenderFemale)

	location := &entity.Location{ProfileID: profile.ID, PlaceName: "Taipei", Coordinates: &entity.Coordinates{Latitude: 25, Longitude: 121}}
	require.NoError(t, repos.NewLocationRepository().Create(ctx, location))
	image := &entity.Image{ProfileID: profile.ID, Key: "images/a.png"}
	require.NoError(t, repos.NewImageRepository().Create(ctx, image))

	found, err := repos.NewProfileRepository().FindByAccountID(ctx, profile.AccountID)
	require.NoError(t, err)
	require.NotNil(t, found.Location)
	assert.Equal(t, location.ID, found.Location.ID)
	assert.Equal(t, []uuid.UUID{image.ID}, found.ImageIDs)

	found.Location.Coordinates.Latitude = 0
	again, err := repos.NewLocationRepository().FindByID(ctx, location.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, again.Coordinates.Latitude, 0)

	listed, err := repos.NewProfileRepository().ListByGender(ctx, entity.GenderFemale)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	err = repos.NewProfileRepository().Create(ctx, &entity.Profile{AccountID: profile.AccountID, Gender: entity.GenderMale})
	assert.ErrorIs(t, err, repository.ErrProfileConflict)
}
