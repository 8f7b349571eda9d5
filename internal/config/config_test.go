package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "ctz", cfg.Chain.Strategy)
	assert.Equal(t, 100, cfg.Chain.Steps)
}

func TestParse_OverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
chain:
  strategy: full
  steps: 1000
log:
  level: debug
telemetry:
  metrics: true
`))
	require.NoError(t, err)
	assert.Equal(t, "full", cfg.Chain.Strategy)
	assert.Equal(t, 1000, cfg.Chain.Steps)
	assert.Equal(t, 1.01, cfg.Chain.Exponent, "unset fields keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Telemetry.Metrics)
	assert.False(t, cfg.Telemetry.Trace)
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"strategy", "chain: {strategy: revolve}"},
		{"steps", "chain: {steps: -1}"},
		{"x0", "chain: {x0: 0}"},
		{"level", "log: {level: loud}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("chain: {stepz: 3}"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chain:\n  steps: 7\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Chain.Steps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
