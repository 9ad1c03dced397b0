package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"spark/config"
	"spark/internal/domain/entity"
	"spark/internal/domain/repository"
	"spark/internal/infra/persistence/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:           4,
			AccessTokenTTL:       15 * time.Minute,
			RefreshTokenTTL:      24 * time.Hour,
			SessionSweepInterval: time.Hour,
		},
		Subscription: &config.SubscriptionConfig{
			Basic:    config.TierConfig{DailySwipes: 3, RadiusKm: 10},
			VIP:      config.TierConfig{DailySwipes: 5, RadiusKm: 50},
			Timezone: "UTC",
		},
		Location: &config.LocationConfig{UpdateInterval: 2 * time.Hour},
		Images:   &config.ImagesConfig{BucketURL: "mem://", Prefix: "images", MaxSize: 1024},
	}
}

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// storeFixture is an in-memory store with helpers to seed accounts.
type storeFixture struct {
	txManager repository.TransactionManager
	repos     repository.RepositoryFactory
	cfg       *config.Config
	clock     *testClock
	logger    *slog.Logger
}

func newStoreFixture() *storeFixture {
	store := memory.NewStore()

	return &storeFixture{
		txManager: memory.NewTransactionManager(store),
		repos:     store.Repositories(),
		cfg:       newTestConfig(),
		clock:     newTestClock(),
		logger:    newDiscardLogger(),
	}
}

// Some well known places.
var (
	taipei     = &entity.Coordinates{Latitude: 25.0330, Longitude: 121.5654}
	taoyuan    = &entity.Coordinates{Latitude: 24.9936, Longitude: 121.3010} // ~27 km from taipei
	kaohsiung  = &entity.Coordinates{Latitude: 22.6273, Longitude: 120.3014}
	xinyiShops = &entity.Coordinates{Latitude: 25.0360, Longitude: 121.5670} // ~0.4 km from taipei
)

// seedProfile stores an account with a profile and a location at coords (nil for none).
func (f *storeFixture) seedProfile(t *testing.T, gender entity.Gender, coords *entity.Coordinates) *entity.Profile {
	t.Helper()

	ctx := context.Background()
	account := &entity.Account{
		ID:        uuid.New(),
		Email:     uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  string(gender),
		CreatedAt: f.clock.Now(),
	}
	require.NoError(t, f.repos.NewAccountRepository().Create(ctx, account))

	profile := &entity.Profile{
		ID:        uuid.New(),
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Gender:    gender,
		CreatedAt: f.clock.Now(),
	}
	require.NoError(t, f.repos.NewProfileRepository().Create(ctx, profile))

	location := &entity.Location{ID: uuid.New(), ProfileID: profile.ID}
	if coords != nil {
		c := *coords
		location.PlaceName = "seeded"
		location.Coordinates = &c
		location.LastUpdated = f.clock.Now()
	}
	require.NoError(t, f.repos.NewLocationRepository().Create(ctx, location))

	stored, err := f.repos.NewProfileRepository().FindByID(ctx, profile.ID)
	require.NoError(t, err)

	return stored
}

// seedSwipe records a swipe directly, bypassing quota and match handling.
func (f *storeFixture) seedSwipe(t *testing.T, swiper, swiped *entity.Profile, liked bool) {
	t.Helper()

	require.NoError(t, f.repos.NewSwipeRepository().Create(context.Background(), &entity.Swipe{
		ID:        uuid.New(),
		SwiperID:  swiper.ID,
		SwipedID:  swiped.ID,
		Liked:     liked,
		CreatedAt: f.clock.Now(),
	}))
}

// seedMatch makes a and b like each other and opens their chat.
func (f *storeFixture) seedMatch(t *testing.T, a, b *entity.Profile) *entity.Chat {
	t.Helper()

	f.seedSwipe(t, a, b, true)
	f.seedSwipe(t, b, a, true)

	chat, _, err := f.repos.NewChatRepository().EnsureForPair(context.Background(), &entity.Chat{
		ID:        uuid.New(),
		User1ID:   b.ID,
		User2ID:   a.ID,
		CreatedAt: f.clock.Now(),
	})
	require.NoError(t, err)

	return chat
}

func boolPtr(v bool) *bool { return &v }

func stringPtr(v string) *string { return &v }

// lockRecorder wraps a transaction manager and records, in call order, the
// rows locked through the repositories it hands out.
type lockRecorder struct {
	repository.TransactionManager

	mu        sync.Mutex
	profiles  []uuid.UUID
	locations []uuid.UUID
}

// recordLocks routes the fixture's transactions through a lockRecorder.
// Services built afterwards from f.txManager are observed.
func (f *storeFixture) recordLocks() *lockRecorder {
	rec := &lockRecorder{TransactionManager: f.txManager}
	f.txManager = rec

	return rec
}

func (r *lockRecorder) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return r.TransactionManager.Execute(ctx, func(txFactory repository.RepositoryFactory) error {
		return fn(&lockingFactory{RepositoryFactory: txFactory, rec: r})
	})
}

func (r *lockRecorder) lockedProfiles() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]uuid.UUID(nil), r.profiles...)
}

func (r *lockRecorder) lockedLocations() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]uuid.UUID(nil), r.locations...)
}

func (r *lockRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles, r.locations = nil, nil
}

type lockingFactory struct {
	repository.RepositoryFactory
	rec *lockRecorder
}

func (f *lockingFactory) NewProfileRepository() repository.ProfileRepository {
	return &lockingProfiles{ProfileRepository: f.RepositoryFactory.NewProfileRepository(), rec: f.rec}
}

func (f *lockingFactory) NewLocationRepository() repository.LocationRepository {
	return &lockingLocations{LocationRepository: f.RepositoryFactory.NewLocationRepository(), rec: f.rec}
}

type lockingProfiles struct {
	repository.ProfileRepository
	rec *lockRecorder
}

func (p *lockingProfiles) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	p.rec.mu.Lock()
	p.rec.profiles = append(p.rec.profiles, id)
	p.rec.mu.Unlock()

	return p.ProfileRepository.LockForUpdate(ctx, id)
}

type lockingLocations struct {
	repository.LocationRepository
	rec *lockRecorder
}

func (l *lockingLocations) LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Location, error) {
	l.rec.mu.Lock()
	l.rec.locations = append(l.rec.locations, id)
	l.rec.mu.Unlock()

	return l.LocationRepository.LockForUpdate(ctx, id)
}
