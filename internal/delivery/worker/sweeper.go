// Package worker hosts background deliveries that run next to the HTTP server.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"spark/config"
	"spark/internal/delivery"
	"spark/internal/domain/lifecycle"
	"spark/internal/usecase"

	"go.uber.org/fx"
)

type sessionSweeper struct {
	interval time.Duration
	accounts usecase.AccountUsecase
	logger   *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SweeperParams holds dependencies for the session sweeper
type SweeperParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	Logger   *slog.Logger
	Accounts usecase.AccountUsecase
}

// NewSessionSweeper creates a delivery that purges expired refresh tokens on a fixed interval
func NewSessionSweeper(params SweeperParams) delivery.Delivery {
	s := &sessionSweeper{
		interval: params.Cfg.Auth.SessionSweepInterval,
		accounts: params.Accounts,
		logger:   params.Logger.With(slog.String("component", "session_sweeper")),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	params.Lc.Append(fx.Hook{
		OnStop: s.stop,
	})

	return s
}

// Serve runs the sweep loop until ctx ends or the sweeper is stopped
func (s *sessionSweeper) Serve(ctx context.Context) error {
	defer close(s.doneCh)

	s.logger.Info("Starting session sweeper", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *sessionSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	if _, err := s.accounts.PurgeExpiredSessions(sweepCtx); err != nil {
		s.logger.Error("Session sweep failed", slog.Any("error", err))
	}
}

// stop ends the loop and waits for an in-flight sweep
func (s *sessionSweeper) stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.stopCh) })

	s.logger.Info("Shutting down session sweeper")

	select {
	case <-s.doneCh:
	case <-ctx.Done():
	}

	return nil
}
