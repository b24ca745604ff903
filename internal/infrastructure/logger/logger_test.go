package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigPresets(t *testing.T) {
	dev := DefaultConfig()
	assert.Equal(t, "console", dev.Format)
	assert.Equal(t, "stdout", dev.Output)

	prod := ProductionConfig()
	assert.Equal(t, "json", prod.Format)
	assert.Equal(t, "info", prod.Level)
	assert.NotEmpty(t, prod.TimeFormat)
}

func TestNew(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"default", DefaultConfig()},
		{"production", ProductionConfig()},
		{"debug to stderr", &Config{Level: "debug", Format: "json", Output: "stderr"}},
		{"empty fields fall back", &Config{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			log, err := New(tc.cfg)
			require.NoError(t, err)
			require.NotNil(t, log)
			log.Info("reconciliation accepted")
			require.NotPanics(t, func() { _ = Sync(log) })
		})
	}
}

func TestNewWithFileOutput(t *testing.T) {
	path := t.TempDir() + "/ledger.log"

	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("deposit recorded")
	require.NoError(t, Sync(log))

	assert.FileExists(t, path)
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development", "test", ""} {
		log, err := NewForEnvironment(env)
		require.NoError(t, err, env)
		require.NotNil(t, log, env)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}
