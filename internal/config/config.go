// Package config loads the TOML settings file.
//
// A missing file is not an error: every field has a default, and a file only
// needs the keys it overrides.
//
//	catalog = "~/agripath/catalog"
//
//	[feed]
//	url = "https://feed.agripath.in/api/v1"
//	locale = "hi-IN"
//
//	[carousel.banners]
//	autoplay_interval = "4s"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/carousel"
	"github.com/agripath/agripath/internal/validate"
)

// FileName is the settings file name inside the user config directory.
const FileName = "config.toml"

// Duration is a time.Duration written as a Go duration string ("1500ms").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the content of the settings file.
type Config struct {
	// Catalog is a catalog file or directory. Empty selects the bundled one.
	Catalog     string    `toml:"catalog"`
	StorageFile string    `toml:"storage_file" validate:"required"`
	Feed        Feed      `toml:"feed"`
	Log         Log       `toml:"log"`
	Carousels   Carousels `toml:"carousel"`
}

// Feed configures the remote content feed.
type Feed struct {
	URL     string   `toml:"url" validate:"omitempty,url"`
	Locale  string   `toml:"locale" validate:"omitempty,bcp47_language_tag"`
	Offline bool     `toml:"offline"`
	Timeout Duration `toml:"timeout"`
}

// Log configures logging while the terminal UI runs.
type Log struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn error"`
	// File receives logs during `browse`; they are discarded when empty.
	File string `toml:"file"`
}

// Carousels holds one section per home screen carousel.
type Carousels struct {
	Banners Carousel `toml:"banners"`
	Careers Carousel `toml:"careers"`
}

// Carousel is the file form of carousel.Config.
type Carousel struct {
	CloneCount             int      `toml:"clone_count"`
	Stride                 float64  `toml:"stride"`
	Autoplay               bool     `toml:"autoplay"`
	AutoplayInterval       Duration `toml:"autoplay_interval"`
	InitialSettleDelay     Duration `toml:"initial_settle_delay"`
	MinVisibleFraction     float64  `toml:"min_visible_fraction"`
	MinVisibleTime         Duration `toml:"min_visible_time"`
	ViewabilitySettleDelay Duration `toml:"viewability_settle_delay"`
	FPS                    int      `toml:"fps"`
}

// Settings converts the section to carousel tuning constants.
func (c Carousel) Settings() carousel.Config {
	return carousel.Config{
		CloneCount:             c.CloneCount,
		Stride:                 c.Stride,
		AutoplayInterval:       c.AutoplayInterval.Duration,
		InitialSettleDelay:     c.InitialSettleDelay.Duration,
		MinVisibleFraction:     c.MinVisibleFraction,
		MinVisibleTime:         c.MinVisibleTime.Duration,
		ViewabilitySettleDelay: c.ViewabilitySettleDelay.Duration,
		Autoplay:               c.Autoplay,
		FPS:                    c.FPS,
	}
}

func fromSettings(s carousel.Config) Carousel {
	return Carousel{
		CloneCount:             s.CloneCount,
		Stride:                 s.Stride,
		Autoplay:               s.Autoplay,
		AutoplayInterval:       Duration{s.AutoplayInterval},
		InitialSettleDelay:     Duration{s.InitialSettleDelay},
		MinVisibleFraction:     s.MinVisibleFraction,
		MinVisibleTime:         Duration{s.MinVisibleTime},
		ViewabilitySettleDelay: Duration{s.ViewabilitySettleDelay},
		FPS:                    s.FPS,
	}
}

// Default returns the settings used when no file exists.
func Default() *Config {
	banners := carousel.DefaultConfig()
	careers := carousel.DefaultConfig()
	careers.Stride = 30
	careers.AutoplayInterval = 5 * time.Second

	return &Config{
		StorageFile: "~/.agripath/profile.json",
		Feed:        Feed{Timeout: Duration{5 * time.Second}},
		Log:         Log{Level: "info"},
		Carousels: Carousels{
			Banners: fromSettings(banners),
			Careers: fromSettings(careers),
		},
	}
}

// DefaultPath returns the settings file in the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return FileName
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "agripath", FileName)
}

// Load reads path on top of the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Debugf("no settings at %s, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("settings %s: %s", path, strict.String())
		}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("settings %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Feed.Timeout.Duration <= 0 {
		return fmt.Errorf("feed.timeout must be positive, got %s", c.Feed.Timeout)
	}
	if err := c.Carousels.Banners.Settings().Validate(); err != nil {
		return fmt.Errorf("carousel.banners: %w", err)
	}
	if err := c.Carousels.Careers.Settings().Validate(); err != nil {
		return fmt.Errorf("carousel.careers: %w", err)
	}
	return nil
}

// Encode renders the settings as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

// Write saves the settings to path, creating its directory.
func (c *Config) Write(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
