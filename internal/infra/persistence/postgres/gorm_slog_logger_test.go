package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"spark/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGormLogger(cfg *config.Config) (logger.Interface, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return newGormSlogLogger(base, cfg), buf
}

func TestGormSlogLoggerTrace(t *testing.T) {
	t.Parallel()

	sqlFn := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("errors are logged", func(t *testing.T) {
		t.Parallel()

		gormLogger, buf := newTestGormLogger(nil)
		gormLogger.Trace(context.Background(), time.Now(), sqlFn, errors.New("boom"))

		assert.Contains(t, buf.String(), "GORM query failed")
		assert.Contains(t, buf.String(), "component=gorm")
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		t.Parallel()

		gormLogger, buf := newTestGormLogger(nil)
		gormLogger.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)

		assert.Empty(t, buf.String())
	})

	t.Run("slow threshold comes from storage config", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Storage: &config.StorageConfig{SlowQueryThreshold: time.Millisecond}}
		gormLogger, buf := newTestGormLogger(cfg)
		gormLogger.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)

		assert.Contains(t, buf.String(), "GORM slow query")
	})

	t.Run("plain queries only in debug", func(t *testing.T) {
		t.Parallel()

		gormLogger, buf := newTestGormLogger(nil)
		gormLogger.Trace(context.Background(), time.Now(), sqlFn, nil)
		assert.Empty(t, buf.String())

		debugCfg := &config.Config{}
		debugCfg.Env.Debug = true
		gormLogger, buf = newTestGormLogger(debugCfg)
		gormLogger.Trace(context.Background(), time.Now(), sqlFn, nil)
		assert.Contains(t, buf.String(), "GORM query")
	})
}

func TestGormSlogLoggerWithoutBaseLogger(t *testing.T) {
	t.Parallel()

	gormLogger := newGormSlogLogger(nil, nil)

	assert.NotPanics(t, func() {
		gormLogger.Error(context.Background(), "failed %s", "x")
		gormLogger.Trace(context.Background(), time.Now(), func() (string, int64) { return "", 0 }, errors.New("boom"))
	})
}

func TestGormSlogLoggerSilentMode(t *testing.T) {
	t.Parallel()

	gormLogger, buf := newTestGormLogger(nil)
	gormLogger.LogMode(logger.Silent).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))

	assert.Empty(t, buf.String())
}
