// Package config handles terrainpaint configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Faultbox/terrain-painter/pkg/paint"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all tool settings.
type Config struct {
	Paint   PaintConfig   `yaml:"paint"`
	Output  OutputConfig  `yaml:"output"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Logging LoggingConfig `yaml:"logging"`
}

// PaintConfig tunes the paint passes.
type PaintConfig struct {
	Seed               *int64  `yaml:"seed,omitempty"` // nil seeds from the clock
	WeatherMin         float32 `yaml:"weather_min"`
	WeatherMax         float32 `yaml:"weather_max"`
	MaxAttemptsPerTree int     `yaml:"max_attempts_per_tree"`
}

// OutputConfig holds where painted layers are exported.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// FetchConfig holds remote source settings.
type FetchConfig struct {
	CacheDir string        `yaml:"cache_dir"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Paint: PaintConfig{
			WeatherMin:         paint.DefaultWeatherMin,
			WeatherMax:         paint.DefaultWeatherMax,
			MaxAttemptsPerTree: paint.DefaultMaxAttemptsPerTree,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Fetch: FetchConfig{
			CacheDir: defaultCacheDir(),
			Timeout:  2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "terrain-painter")
	}
	return filepath.Join(os.TempDir(), "terrain-painter")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	p := c.Paint
	if p.WeatherMin < 0 || p.WeatherMax < p.WeatherMin {
		return fmt.Errorf("%w: weather range [%g, %g)", ErrInvalid, p.WeatherMin, p.WeatherMax)
	}
	if p.MaxAttemptsPerTree <= 0 {
		return fmt.Errorf("%w: max_attempts_per_tree %d", ErrInvalid, p.MaxAttemptsPerTree)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("%w: fetch timeout %v", ErrInvalid, c.Fetch.Timeout)
	}
	return nil
}

// PainterOptions returns the paint options the config describes.
func (c *Config) PainterOptions() []paint.Option {
	opts := []paint.Option{
		paint.WithWeathering(c.Paint.WeatherMin, c.Paint.WeatherMax),
		paint.WithMaxAttempts(c.Paint.MaxAttemptsPerTree),
	}
	if c.Paint.Seed != nil {
		opts = append(opts, paint.WithSeed(*c.Paint.Seed))
	}
	return opts
}
