package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"spark/config"
	"spark/internal/domain/lifecycle"
	"spark/internal/infra/persistence/model"

	"github.com/pkg/errors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolSampleInterval = 5 * time.Second
	poolWaitWarnAt     = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the pool from the postgres config section. The connection is
// verified, and optionally migrated, when the application starts.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	// Multi-statement atomicity goes through TransactionManager only.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "postgres sql.DB")
	}

	log := params.Logger.With(slog.String("component", "postgres"))
	watchCtx, stopWatch := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "ping postgres")
			}
			if params.Config.Storage != nil && params.Config.Storage.AutoMigrate {
				if err := Migrate(ctx, db); err != nil {
					return err
				}
				log.InfoContext(ctx, "schema migrated")
			}

			go watchPool(watchCtx, log, sqlDB)

			return nil
		},
		OnStop: func(context.Context) error {
			stopWatch()

			return errors.WithStack(sqlDB.Close())
		},
	})

	return db, nil
}

// Migrate brings every table, index and constraint up to date.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return errors.Wrap(db.WithContext(ctx).AutoMigrate(model.All()...), "migrate schema")
}

// watchPool reports callers that had to wait for a free connection since
// the previous sample.
func watchPool(ctx context.Context, log *slog.Logger, sqlDB *sql.DB) {
	ticker := time.NewTicker(poolSampleInterval)
	defer ticker.Stop()

	last := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := sqlDB.Stats()
		waits := now.WaitCount - last.WaitCount
		waited := now.WaitDuration - last.WaitDuration
		last = now
		if waits <= 0 {
			continue
		}

		level := slog.LevelDebug
		if waited >= poolWaitWarnAt {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, "connection pool contention",
			slog.Int64("waits", waits),
			slog.Duration("waited", waited),
			slog.Duration("avg_wait", waited/time.Duration(waits)),
			slog.Int("open", now.OpenConnections),
			slog.Int("in_use", now.InUse),
			slog.Int("idle", now.Idle),
			slog.Int("max_open", now.MaxOpenConnections),
		)
	}
}
