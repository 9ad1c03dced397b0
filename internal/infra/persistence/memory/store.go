// Package memory provides an in-process implementation of the persistence layer.
// It backs the "memory" storage driver and the use case tests.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/repository"

	"github.com/google/uuid"
)

type pairKey [2]uuid.UUID

// dataset holds every table. Values are stored by copy so callers never alias stored rows.
type dataset struct {
	accounts       map[uuid.UUID]entity.Account
	accountByEmail map[string]uuid.UUID
	tokens         map[string]entity.RefreshToken
	profiles       map[uuid.UUID]entity.Profile
	profileByOwner map[uuid.UUID]uuid.UUID
	locations      map[uuid.UUID]entity.Location
	images         map[uuid.UUID]entity.Image
	swipes         []entity.Swipe
	swipeByPair    map[pairKey]int
	chats          map[uuid.UUID]entity.Chat
	chatByPair     map[entity.ProfilePair]uuid.UUID
	messages       []entity.Message
}

func newDataset() *dataset {
	return &dataset{
		accounts:       make(map[uuid.UUID]entity.Account),
		accountByEmail: make(map[string]uuid.UUID),
		tokens:         make(map[string]entity.RefreshToken),
		profiles:       make(map[uuid.UUID]entity.Profile),
		profileByOwner: make(map[uuid.UUID]uuid.UUID),
		locations:      make(map[uuid.UUID]entity.Location),
		images:         make(map[uuid.UUID]entity.Image),
		swipeByPair:    make(map[pairKey]int),
		chats:          make(map[uuid.UUID]entity.Chat),
		chatByPair:     make(map[entity.ProfilePair]uuid.UUID),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// clone makes a snapshot used to roll a failed transaction back.
// Coordinates pointers are shared because stored locations never mutate them in place.
func (d *dataset) clone() *dataset {
	return &dataset{
		accounts:       cloneMap(d.accounts),
		accountByEmail: cloneMap(d.accountByEmail),
		tokens:         cloneMap(d.tokens),
		profiles:       cloneMap(d.profiles),
		profileByOwner: cloneMap(d.profileByOwner),
		locations:      cloneMap(d.locations),
		images:         cloneMap(d.images),
		swipes:         slices.Clone(d.swipes),
		swipeByPair:    cloneMap(d.swipeByPair),
		chats:          cloneMap(d.chats),
		chatByPair:     cloneMap(d.chatByPair),
		messages:       slices.Clone(d.messages),
	}
}

// Store is the shared in-memory database. Transactions are serialised by a single mutex.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// session binds repositories either to the store directly or to a running transaction.
type session struct {
	store *Store
	inTx  bool
}

func (s *session) run(fn func(d *dataset) error) error {
	if !s.inTx {
		s.store.mu.Lock()
		defer s.store.mu.Unlock()
	}

	return fn(s.store.data)
}

type transactionManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager over store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

// Execute runs fn while holding the store lock and restores the snapshot when fn fails or panics.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	snapshot := tm.store.data.clone()

	defer func() {
		if r := recover(); r != nil {
			tm.store.data = snapshot
			panic(r)
		}
	}()

	if err := fn(newRepositoryFactory(&session{store: tm.store, inTx: true})); err != nil {
		tm.store.data = snapshot

		return err
	}

	return nil
}

type repositoryFactory struct {
	sess *session
}

func newRepositoryFactory(sess *session) repository.RepositoryFactory {
	return &repositoryFactory{sess: sess}
}

// Repositories returns a factory for repositories that lock the store per call.
func (s *Store) Repositories() repository.RepositoryFactory {
	return newRepositoryFactory(&session{store: s})
}

func (f *repositoryFactory) NewAccountRepository() repository.AccountRepository {
	return &accountRepository{sess: f.sess}
}

func (f *repositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return &refreshTokenRepository{sess: f.sess}
}

func (f *repositoryFactory) NewProfileRepository() repository.ProfileRepository {
	return &profileRepository{sess: f.sess}
}

func (f *repositoryFactory) NewLocationRepository() repository.LocationRepository {
	return &locationRepository{sess: f.sess}
}

func (f *repositoryFactory) NewImageRepository() repository.ImageRepository {
	return &imageRepository{sess: f.sess}
}

func (f *repositoryFactory) NewSwipeRepository() repository.SwipeRepository {
	return &swipeRepository{sess: f.sess}
}

func (f *repositoryFactory) NewChatRepository() repository.ChatRepository {
	return &chatRepository{sess: f.sess}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func ensureTime(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
