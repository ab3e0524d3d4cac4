// Package config loads the TOML settings shared by the kbridge tools.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// Config is the top-level configuration file.
type Config struct {
	Viewport ViewportConfig `toml:"viewport"`
	Log      LogConfig      `toml:"log"`
	Font     FontConfig     `toml:"font"`
}

type ViewportConfig struct {
	Width            float64 `toml:"width"`
	Height           float64 `toml:"height"`
	DevicePixelRatio float64 `toml:"device_pixel_ratio"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// FontConfig selects the face used for text measurement and painting. An
// empty path uses the built-in bitmap face.
type FontConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Viewport: ViewportConfig{Width: 800, Height: 600, DevicePixelRatio: 1},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("config: %w", err)
		}
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of the defaults.
func Decode(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	v := c.Viewport
	if !(v.Width > 0) || !(v.Height > 0) || math.IsInf(v.Width, 0) || math.IsInf(v.Height, 0) {
		return fmt.Errorf("config: viewport must be positive, got %vx%v", v.Width, v.Height)
	}
	if !(v.DevicePixelRatio > 0) || math.IsInf(v.DevicePixelRatio, 0) {
		return fmt.Errorf("config: device_pixel_ratio must be positive, got %v", v.DevicePixelRatio)
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	return nil
}

// Build creates the zap logger described by the log section.
func (c LogConfig) Build() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
