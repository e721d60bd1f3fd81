package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
	other, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, other.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	sqlFn := func() (string, int64) { return "SELECT 1", 1 }
	ctx := WithRequestID(context.Background(), "req-9")

	t.Run("error is logged with request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(ctx, time.Now(), sqlFn, errors.New("boom"))

		entry := findEntry(recorded.All(), "SQL Error")
		require.NotNil(t, entry)
		assert.Equal(t, "req-9", entry.ContextMap()["request_id"])
	})

	t.Run("constraint violations warn", func(t *testing.T) {
		for _, err := range []error{
			&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"},
			gorm.ErrDuplicatedKey,
		} {
			core, recorded := observer.New(zapcore.DebugLevel)
			NewGormLogger(zap.New(core), gormlogger.Warn).Trace(ctx, time.Now(), sqlFn, err)

			entry := findEntry(recorded.All(), "SQL constraint violation")
			require.NotNil(t, entry, err.Error())
			assert.Equal(t, zapcore.WarnLevel, entry.Level)
		}
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn)

		gl.Trace(ctx, time.Now(), sqlFn, gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("slow query warns", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(time.Millisecond))

		gl.Trace(ctx, time.Now().Add(-50*time.Millisecond), sqlFn, nil)
		require.NotNil(t, findEntry(recorded.All(), "SLOW SQL"))
	})

	t.Run("queries only at info level", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(0)).Trace(ctx, time.Now(), sqlFn, nil)
		assert.Empty(t, recorded.All())

		NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(0)).Trace(ctx, time.Now(), sqlFn, nil)
		require.NotNil(t, findEntry(recorded.All(), "SQL Query"))
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		NewGormLogger(zap.New(core), gormlogger.Silent).Trace(ctx, time.Now(), sqlFn, errors.New("x"))
		assert.Empty(t, recorded.All())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
}
