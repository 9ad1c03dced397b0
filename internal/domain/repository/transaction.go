package repository

import "context"

// TransactionManager runs a unit of work atomically. fn must reach storage
// only through the factory it receives; returning an error discards every
// write made through it.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories sharing one storage session,
// either a transaction or the plain connection.
type RepositoryFactory interface {
	NewAccountRepository() AccountRepository
	NewRefreshTokenRepository() RefreshTokenRepository
	NewProfileRepository() ProfileRepository
	NewLocationRepository() LocationRepository
	NewImageRepository() ImageRepository
	NewSwipeRepository() SwipeRepository
	NewChatRepository() ChatRepository
}
