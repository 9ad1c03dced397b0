// Package persistence selects the storage driver named in the configuration.
package persistence

import (
	"log/slog"

	"spark/config"
	"spark/internal/domain/repository"
	"spark/internal/infra/persistence/memory"
	"spark/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params holds dependencies for the persistence layer, injected by Fx
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// Result exposes the transaction manager and the non-transactional repositories
type Result struct {
	fx.Out

	TxManager    repository.TransactionManager
	Repositories repository.RepositoryFactory
}

// New builds the configured driver. The postgres driver registers its own lifecycle hooks.
func New(params Params) (Result, error) {
	driver := params.Config.Storage.Driver

	switch driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()

		return Result{
			TxManager:    memory.NewTransactionManager(store),
			Repositories: store.Repositories(),
		}, nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return Result{}, err
		}

		return Result{
			TxManager:    postgres.NewTransactionManager(db),
			Repositories: postgres.NewRepositoryFactory(db),
		}, nil

	default:
		return Result{}, errors.Errorf("unknown storage driver: %s", driver)
	}
}
