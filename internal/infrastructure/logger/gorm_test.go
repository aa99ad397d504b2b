package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func selectUsers() (string, int64) { return "SELECT * FROM users", 3 }

var _ gormlogger.Interface = (*GormLogger)(nil)

func TestGormLogger_LogModeReturnsCopy(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)
	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
}

func TestGormLogger_LevelGating(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn)
	gl.Info(context.Background(), "hidden %d", 1)
	gl.Warn(context.Background(), "shown %d", 2)
	gl.Error(context.Background(), "shown %d", 3)

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "shown 2", logs[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("errors are logged", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), selectUsers, errors.New("boom"))
		require.Len(t, recorded.All(), 1)
		assert.Equal(t, "SQL Error", recorded.All()[0].Message)
	})

	t.Run("record not found is skipped", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Error)
		gl.Trace(context.Background(), time.Now(), selectUsers, gormlogger.ErrRecordNotFound)
		assert.Empty(t, recorded.All())
	})

	t.Run("slow queries warn", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
		gl.Trace(context.Background(), time.Now().Add(-time.Second), selectUsers, nil)
		require.Len(t, recorded.All(), 1)
		assert.Contains(t, recorded.All()[0].Message, "SLOW SQL")
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), selectUsers, errors.New("boom"))
		assert.Empty(t, recorded.All())
	})

	t.Run("carries request and job ids", func(t *testing.T) {
		gl, recorded := newObservedGorm(gormlogger.Info)
		ctx := WithJob(WithRequestID(context.Background(), "req-1"), "sync_orders")
		gl.Trace(ctx, time.Now(), selectUsers, nil)

		require.Len(t, recorded.All(), 1)
		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "sync_orders", fields["job"])
		assert.Equal(t, int64(3), fields["rows"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"WARN":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
		"":       gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
