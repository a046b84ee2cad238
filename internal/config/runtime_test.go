package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "MODEL_CACHE_MAX_ITEMS", "DECISION_MAX_DEPTH", "DECISION_OBS_BUFFER", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, Runtime{
		HTTPAddr:         ":8080",
		CacheMaxItems:    1024,
		DecisionMaxDepth: 256,
		ObsBuffer:        4096,
		LogLevel:         "info",
	}, cfg)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MODEL_CACHE_MAX_ITEMS", "10")
	t.Setenv("DECISION_MAX_DEPTH", "0")
	t.Setenv("DECISION_OBS_BUFFER", "nope")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 10, cfg.CacheMaxItems)
	assert.Equal(t, 256, cfg.DecisionMaxDepth, "below minimum falls back")
	assert.Equal(t, 4096, cfg.ObsBuffer, "unparsable falls back")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud")
	assert.Error(t, err)
}
