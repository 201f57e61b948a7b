// Package config loads the station list and tuning knobs from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ncafters/afters/internal/history"
	"github.com/ncafters/afters/internal/icecast"
	"github.com/ncafters/afters/internal/visualizer"
	"gopkg.in/yaml.v2"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Station is one selectable stream.
type Station struct {
	Name    string `yaml:"name"`
	Stream  string `yaml:"stream"`
	Mount   string `yaml:"mount"`
	Icecast bool   `yaml:"icecast"`
}

// Visualizer holds the bar pipeline settings.
type Visualizer struct {
	Bars        int    `yaml:"bars"`
	FPS         int    `yaml:"fps"`
	FFTSize     int    `yaml:"fft_size"`
	Rows        int    `yaml:"rows"`
	GainMode    string `yaml:"gain_mode"`
	ResetOnStop bool   `yaml:"reset_on_stop"`
}

// Config is the full application configuration.
type Config struct {
	StatusURL    string        `yaml:"status_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
	Volume       float64       `yaml:"volume"`
	HistorySize  int           `yaml:"history_size"`
	Stations     []Station     `yaml:"stations"`
	Visualizer   Visualizer    `yaml:"visualizer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StatusURL:    icecast.DefaultStatusURL,
		PollInterval: 8 * time.Second,
		Volume:       0.8,
		HistorySize:  history.DefaultSize,
		Stations: []Station{
			{Name: "Tops", Stream: "https://ncafters.live/tops", Mount: "/tops", Icecast: true},
			{Name: "Chill", Stream: "https://ncafters.live/chill", Mount: "/chill", Icecast: true},
			{Name: "Late Night", Stream: "https://ncafters.live/latenight", Mount: "/latenight", Icecast: true},
		},
		Visualizer: Visualizer{
			Bars:     16,
			FPS:      60,
			FFTSize:  128,
			Rows:     4,
			GainMode: visualizer.GainLastBar.String(),
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/afters/config.yaml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "afters", "config.yaml"), nil
}

// Load reads path over the defaults. An empty path means DefaultPath, and
// a missing default file yields the defaults; an explicitly named file
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks value ranges and station entries.
func (c Config) Validate() error {
	if strings.TrimSpace(c.StatusURL) == "" {
		return fmt.Errorf("%w: status_url is empty", ErrInvalid)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll_interval must be positive", ErrInvalid)
	}
	if c.Volume < 0 || c.Volume > 1 {
		return fmt.Errorf("%w: volume %v outside [0, 1]", ErrInvalid, c.Volume)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("%w: history_size must be positive", ErrInvalid)
	}
	if len(c.Stations) == 0 {
		return fmt.Errorf("%w: no stations", ErrInvalid)
	}
	for i, s := range c.Stations {
		if s.Name == "" || s.Stream == "" {
			return fmt.Errorf("%w: station %d needs a name and a stream", ErrInvalid, i+1)
		}
	}
	v := c.Visualizer
	if v.Bars <= 0 || v.FPS <= 0 || v.Rows <= 0 {
		return fmt.Errorf("%w: visualizer bars, fps and rows must be positive", ErrInvalid)
	}
	if v.FFTSize < 4 || v.FFTSize&(v.FFTSize-1) != 0 {
		return fmt.Errorf("%w: visualizer fft_size %d is not a power of two", ErrInvalid, v.FFTSize)
	}
	if _, err := visualizer.ParseGainMode(v.GainMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// VisualizerOptions converts the visualizer section for NewVisualizer.
func (c Config) VisualizerOptions() visualizer.Options {
	mode, _ := visualizer.ParseGainMode(c.Visualizer.GainMode)
	return visualizer.Options{
		Pipeline: visualizer.Config{
			Bars:        c.Visualizer.Bars,
			GainMode:    mode,
			ResetOnStop: c.Visualizer.ResetOnStop,
		},
		FFTSize: c.Visualizer.FFTSize,
		FPS:     c.Visualizer.FPS,
		Rows:    c.Visualizer.Rows,
	}
}

// FirstIcecastStation returns the index of the first station with Icecast
// metadata, or -1.
func (c Config) FirstIcecastStation() int {
	for i, s := range c.Stations {
		if s.Icecast {
			return i
		}
	}
	return -1
}
