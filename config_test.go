package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadEnvConfigDefaults(t *testing.T) {
	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "screenshots", cfg.ScreenshotDir)
	assert.False(t, cfg.Debug)
	assert.Empty(t, cfg.Script)
}

func TestLoadEnvConfigOverrides(t *testing.T) {
	t.Setenv("SCRUB_WIDTH", "1920")
	t.Setenv("SCRUB_HEIGHT", "1080")
	t.Setenv("SCRUB_SHOW_FPS", "true")
	t.Setenv("SCRUB_LOG_LEVEL", "warn")
	t.Setenv("SCRUB_SCREENSHOT_DIR", "/tmp/shots")
	t.Setenv("SCRUB_SCRIPT", "tour.yaml")

	cfg, err := LoadEnvConfig()
	require.NoError(t, err)
	assert.Equal(t, 1920, cfg.Width)
	assert.Equal(t, 1080, cfg.Height)
	assert.True(t, cfg.ShowFPS)
	assert.Equal(t, "tour.yaml", cfg.Script)

	sc := cfg.SceneConfig(nil)
	assert.Equal(t, 1920.0, sc.Width)
	assert.Equal(t, "/tmp/shots", sc.ScreenshotDir)

	rc := cfg.RunConfig("demo")
	assert.Equal(t, "demo", rc.Title)
	assert.Equal(t, 1080, rc.Height)
	assert.True(t, rc.ShowFPS)

	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestLoadEnvConfigErrors(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"not a number", "SCRUB_WIDTH", "wide"},
		{"zero height", "SCRUB_HEIGHT", "0"},
		{"negative width", "SCRUB_WIDTH", "-5"},
		{"bad bool", "SCRUB_DEBUG", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadEnvConfig()
			assert.Error(t, err)
		})
	}
}

func TestEnvConfigLogger(t *testing.T) {
	_, err := EnvConfig{LogLevel: "loud"}.Logger()
	assert.Error(t, err)

	log, err := EnvConfig{LogLevel: "error", Debug: true}.Logger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel), "debug mode forces the debug level")
}
