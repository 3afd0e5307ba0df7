package logger_test

import (
	"context"
	"testing"

	"converso-api/internal/observability/logger"
	"converso-api/internal/observability/requestid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_New(t *testing.T) {
	log, err := logger.New("test-service", "info")
	require.NoError(t, err)
	defer log.Sync()

	ctx := context.Background()
	log.Info(ctx, "test info message", logger.Module("test"), logger.Action("test_action"))
	log.Warn(ctx, "test warn message", logger.Module("test"), logger.Action("test_action"))
	log.Error(ctx, "test error message", logger.Module("test"), logger.Action("test_action"))
}

func TestLogger_RequiresServiceName(t *testing.T) {
	_, err := logger.New("", "info")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serviceName is required")
}

func TestLogger_LevelParsing(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "invalid"} {
		t.Run(level, func(t *testing.T) {
			log, err := logger.New("test-service", level)
			require.NoError(t, err)
			defer log.Sync()
		})
	}
}

func TestLogger_ContextFields(t *testing.T) {
	log, err := logger.New("test-service", "info")
	require.NoError(t, err)
	defer log.Sync()

	ctx := context.Background()
	ctx = requestid.SetRequestID(ctx, "test-req-123")
	ctx = logger.SetUserIDInContext(ctx, "42")

	log.Info(ctx, "test with context", logger.Module("test"), logger.Action("test_context"))

	assert.Equal(t, "test-req-123", logger.GetRequestIDFromContext(ctx))
	assert.Equal(t, "42", logger.GetUserIDFromContext(ctx))
}

func TestLogger_GetLoggerFromContext(t *testing.T) {
	log, err := logger.New("test-service", "info")
	require.NoError(t, err)
	defer log.Sync()

	ctx := logger.SetLoggerInContext(context.Background(), log)
	assert.Same(t, log, logger.GetLogger(ctx))
}

func TestLogger_GetLoggerFromEmptyContext(t *testing.T) {
	ctx := context.Background()

	log := logger.GetLogger(ctx)
	require.NotNil(t, log)

	// no-op fallback must not panic
	log.Info(ctx, "test with fallback logger", logger.Module("test"), logger.Action("test_fallback"))
}

func TestLogger_RootErrorContainer(t *testing.T) {
	ctx := logger.InitRootErrorContext(context.Background())

	assert.NoError(t, logger.GetRootError(ctx))

	logger.SetRootError(ctx, assert.AnError)
	assert.ErrorIs(t, logger.GetRootError(ctx), assert.AnError)
}

func TestLogger_RootErrorWithoutInit(t *testing.T) {
	ctx := context.Background()

	// must not panic when the container was never installed
	logger.SetRootError(ctx, assert.AnError)
	assert.NoError(t, logger.GetRootError(ctx))
}
