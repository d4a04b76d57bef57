package scrub

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// EnvConfig is runtime configuration read from SCRUB_* environment
// variables. Programs embedding a scene use it to pick window size, logging
// and an optional scroll script without flags.
type EnvConfig struct {
	Width         int    `env:"SCRUB_WIDTH"          envDefault:"1280"`
	Height        int    `env:"SCRUB_HEIGHT"         envDefault:"720"`
	ShowFPS       bool   `env:"SCRUB_SHOW_FPS"`
	Debug         bool   `env:"SCRUB_DEBUG"`
	LogLevel      string `env:"SCRUB_LOG_LEVEL"      envDefault:"info"`
	ScreenshotDir string `env:"SCRUB_SCREENSHOT_DIR" envDefault:"screenshots"`
	// Script is the path of a scroll script to run on start.
	Script string `env:"SCRUB_SCRIPT"`
}

// LoadEnvConfig parses the environment.
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return EnvConfig{}, fmt.Errorf("parse env: window size %dx%d", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

// Logger builds a development logger at LogLevel. Debug mode forces the
// debug level so per-tick timings are visible.
func (c EnvConfig) Logger() (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if c.Debug {
		lvl.SetLevel(zap.DebugLevel)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	return zc.Build()
}

// SceneConfig returns the scene settings for this environment.
func (c EnvConfig) SceneConfig(log *zap.Logger) SceneConfig {
	return SceneConfig{
		Width:         float64(c.Width),
		Height:        float64(c.Height),
		ScreenshotDir: c.ScreenshotDir,
		Logger:        log,
		Debug:         c.Debug,
	}
}

// RunConfig returns the window settings for this environment.
func (c EnvConfig) RunConfig(title string) RunConfig {
	return RunConfig{
		Title:     title,
		Width:     c.Width,
		Height:    c.Height,
		Resizable: true,
		ShowFPS:   c.ShowFPS,
	}
}
