package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spark/config"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultGormSlowThreshold = 200 * time.Millisecond

// gormSlogLogger routes gorm's statement tracing into the application logger.
// Missing rows are expected on lookups and never reported.
type gormSlogLogger struct {
	log  *slog.Logger
	mode gormlogger.LogLevel
	slow time.Duration
}

func newGormSlogLogger(base *slog.Logger, cfg *config.Config) gormlogger.Interface {
	l := &gormSlogLogger{mode: gormlogger.Warn, slow: defaultGormSlowThreshold}
	if cfg != nil {
		if cfg.Env.Debug {
			l.mode = gormlogger.Info
		}
		if cfg.Storage != nil && cfg.Storage.SlowQueryThreshold > 0 {
			l.slow = cfg.Storage.SlowQueryThreshold
		}
	}
	if base != nil {
		l.log = base.With(slog.String("component", "gorm"))
	}

	return l
}

func (l *gormSlogLogger) LogMode(mode gormlogger.LogLevel) gormlogger.Interface {
	next := *l
	next.mode = mode

	return &next
}

func (l *gormSlogLogger) Info(ctx context.Context, format string, args ...any) {
	l.printf(ctx, gormlogger.Info, format, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, format string, args ...any) {
	l.printf(ctx, gormlogger.Warn, format, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, format string, args ...any) {
	l.printf(ctx, gormlogger.Error, format, args)
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if !l.enabled(gormlogger.Error) {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.statement(ctx, slog.LevelError, "GORM query failed", fc, elapsed, slog.String("error", err.Error()))
	case l.slow > 0 && elapsed > l.slow && l.enabled(gormlogger.Warn):
		l.statement(ctx, slog.LevelWarn, "GORM slow query", fc, elapsed, slog.Duration("threshold", l.slow))
	case err == nil && l.enabled(gormlogger.Info):
		l.statement(ctx, slog.LevelInfo, "GORM query", fc, elapsed)
	}
}

func (l *gormSlogLogger) enabled(mode gormlogger.LogLevel) bool {
	return l.log != nil && l.mode >= mode
}

func (l *gormSlogLogger) printf(ctx context.Context, mode gormlogger.LogLevel, format string, args []any) {
	if !l.enabled(mode) {
		return
	}

	level := slog.LevelInfo
	switch mode {
	case gormlogger.Warn:
		level = slog.LevelWarn
	case gormlogger.Error:
		level = slog.LevelError
	}
	l.log.LogAttrs(ctx, level, "GORM "+level.String(), slog.String("message", fmt.Sprintf(format, args...)))
}

func (l *gormSlogLogger) statement(ctx context.Context, level slog.Level, msg string, fc func() (string, int64), elapsed time.Duration, extra ...slog.Attr) {
	sql, rows := fc()
	attrs := append([]slog.Attr{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}, extra...)
	l.log.LogAttrs(ctx, level, msg, attrs...)
}
