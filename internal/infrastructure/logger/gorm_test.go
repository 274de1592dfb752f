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

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(l *GormLogger, ctx context.Context, begin time.Time, err error) {
	l.Trace(ctx, begin, func() (string, int64) {
		return `INSERT INTO "clients" ("key","payload") VALUES ($1,$2)`, 1
	}, err)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)
	lowered := l.LogMode(gormlogger.Warn)

	assert.Equal(t, gormlogger.Info, l.logLevel)
	clone, ok := lowered.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, clone.logLevel)
}

func TestGormLogger_Levels(t *testing.T) {
	t.Run("info passes at info level", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Info)
		l.Info(context.Background(), "opened %s", "lalajet")
		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Contains(t, logs[0].Message, "opened lalajet")
	})

	t.Run("info suppressed at silent level", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Silent)
		l.Info(context.Background(), "opened")
		assert.Empty(t, recorded.All())
	})

	t.Run("warn and error keep their zap levels", func(t *testing.T) {
		l, recorded := newObservedGormLogger(gormlogger.Info)
		l.Warn(context.Background(), "pool saturated")
		l.Error(context.Background(), "connection lost")
		logs := recorded.All()
		require.Len(t, logs, 2)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
	})
}

func TestGormLogger_TraceFailure(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Error)
	traceQuery(l, context.Background(), time.Now(), errors.New("duplicate key"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "remote sql failed", logs[0].Message)
	assert.Contains(t, logs[0].ContextMap(), "sql")
}

func TestGormLogger_TraceNotFoundSuppressed(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Error)
	traceQuery(l, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)
	assert.Empty(t, recorded.All())
}

func TestGormLogger_TraceNotFoundLogged(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Error, WithNotFoundLogging())
	traceQuery(l, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)
	assert.Len(t, recorded.All(), 1)
}

func TestGormLogger_TraceSlowQuery(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))
	traceQuery(l, context.Background(), time.Now().Add(-time.Second), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "slow remote sql", logs[0].Message)
	assert.Contains(t, logs[0].ContextMap(), "threshold")
}

func TestGormLogger_TraceNormalQuery(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info)
	traceQuery(l, context.Background(), time.Now(), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "remote sql", logs[0].Message)
	assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
}

func TestGormLogger_TraceSilent(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Silent)
	traceQuery(l, context.Background(), time.Now(), nil)
	assert.Empty(t, recorded.All())
}

func TestGormLogger_TraceCarriesContextIDs(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")
	ctx, _ = WithSessionID(ctx, zap.NewNop(), "session-a")
	traceQuery(l, ctx, time.Now(), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "session-a", fields["session_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
		{"", gormlogger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)
	var _ gormlogger.Interface = l
}
