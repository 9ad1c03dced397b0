// Package postgres stores the domain in PostgreSQL through GORM.
package postgres

import (
	"context"

	"spark/internal/domain/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type transactionManager struct {
	db *gorm.DB
}

// NewTransactionManager wraps db so use cases can group writes.
func NewTransactionManager(db *gorm.DB) repository.TransactionManager {
	return &transactionManager{db: db}
}

// Execute delegates to gorm, which rolls back when fn errors or panics.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	var fnErr error
	err := tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(repositoryFactory{db: tx})

		return fnErr
	})
	if err != nil && fnErr == nil {
		return errors.Wrap(err, "postgres transaction")
	}

	return err
}

// repositoryFactory binds every repository to the same *gorm.DB session.
type repositoryFactory struct {
	db *gorm.DB
}

// NewRepositoryFactory returns repositories that run outside any transaction.
func NewRepositoryFactory(db *gorm.DB) repository.RepositoryFactory {
	return repositoryFactory{db: db}
}

func (f repositoryFactory) NewAccountRepository() repository.AccountRepository {
	return NewAccountRepository(f.db)
}

func (f repositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return NewRefreshTokenRepository(f.db)
}

func (f repositoryFactory) NewProfileRepository() repository.ProfileRepository {
	return NewProfileRepository(f.db)
}

func (f repositoryFactory) NewLocationRepository() repository.LocationRepository {
	return NewLocationRepository(f.db)
}

func (f repositoryFactory) NewImageRepository() repository.ImageRepository {
	return NewImageRepository(f.db)
}

func (f repositoryFactory) NewSwipeRepository() repository.SwipeRepository {
	return NewSwipeRepository(f.db)
}

func (f repositoryFactory) NewChatRepository() repository.ChatRepository {
	return NewChatRepository(f.db)
}
