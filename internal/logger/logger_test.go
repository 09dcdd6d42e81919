package logger_test

import (
	"testing"

	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	log, err := logger.NewLogger(&config.LoggingConfig{Level: "chatty", Format: "json"}, &config.AppConfig{Name: "epc-api", Environment: "development"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestScopedLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	logger.WithEntity(base, "lead", 12).Info("lead stage changed")
	logger.WithUser(base, 3, "asha").Info("login succeeded")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, map[string]interface{}{"entity_type": "lead", "entity_id": uint64(12)}, entries[0].ContextMap())
	assert.Equal(t, map[string]interface{}{"user_id": uint64(3), "username": "asha"}, entries[1].ContextMap())
}
