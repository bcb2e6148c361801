package logger_test

import (
	"context"
	"linkvault/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// must stay first: later tests install a default logger
func TestGet_NopBeforeSetup(t *testing.T) {
	l := logger.Get(context.Background())
	require.NotNil(t, l)
	require.False(t, l.Core().Enabled(zap.ErrorLevel), "nothing should be written before Setup")

	require.NotPanics(t, func() {
		logger.Info(context.Background(), "dropped")
		logger.Sync(context.Background())
	})
}

func observed(level zapcore.Level) (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(level)

	return logger.WithLogger(context.Background(), zap.New(core)), logs
}

func TestSetup(t *testing.T) {
	for _, env := range []string{logger.DevelopmentEnvironment, logger.ProductionEnvironment} {
		t.Run(env, func(t *testing.T) {
			require.NotPanics(t, func() { logger.Setup(env) })
			require.True(t, logger.Get(context.Background()).Core().Enabled(zap.InfoLevel))
		})
	}
}

func TestGet_ContextLoggerWinsOverDefault(t *testing.T) {
	logger.Setup(logger.ProductionEnvironment)

	ctx, logs := observed(zap.InfoLevel)
	logger.Info(ctx, "bookmark created")

	require.Equal(t, 1, logs.Len(), "entry should go to the context logger, not the default one")
	require.Equal(t, "bookmark created", logs.All()[0].Message)
}

func TestWithFields_CarriedByHelpers(t *testing.T) {
	ctx, logs := observed(zap.DebugLevel)
	ctx = logger.WithFields(ctx, zap.String("requestID", "req-1"))
	ctx = logger.WithFields(ctx, zap.Int64("userID", 7))

	logger.Warn(ctx, "target unreachable", zap.String("url", "https://example.com"))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, map[string]any{
		"requestID": "req-1",
		"userID":    int64(7),
		"url":       "https://example.com",
	}, entries[0].ContextMap())
}

func TestLevelHelpers(t *testing.T) {
	ctx, logs := observed(zap.InfoLevel)

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	var levels []zapcore.Level
	for _, e := range logs.All() {
		levels = append(levels, e.Level)
	}
	require.Equal(t, []zapcore.Level{zap.InfoLevel, zap.WarnLevel, zap.ErrorLevel}, levels, "debug should be filtered out")
}

func TestIsDebug(t *testing.T) {
	debugCtx, _ := observed(zap.DebugLevel)
	require.True(t, logger.IsDebug(debugCtx))

	infoCtx, _ := observed(zap.InfoLevel)
	require.False(t, logger.IsDebug(infoCtx))

	logger.Setup(logger.DevelopmentEnvironment)
	require.True(t, logger.IsDebug(context.Background()), "development default logs at debug")
}
