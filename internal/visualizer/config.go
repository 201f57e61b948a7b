package visualizer

import (
	"fmt"
	"strings"
)

// Tuning constants for the bar pipeline. Heights are in pixel-equivalent
// units; the bar renderer maps them onto terminal rows.
const (
	MinHeight  = 4.0
	MaxHeight  = 20.0
	TargetPeak = 14.0

	GainAttack  = 0.015
	GainRelease = 0.004

	smoothingKeep = 0.75
	smoothingMix  = 0.25

	reactivityScale = 2.4
	reactivityCap   = 8.0
	heightCurve     = 0.75

	transientThreshold = 6.0
	transientDivisor   = 32.0
	transientCap       = 0.8

	volumeFloor    = 0.15
	minGainDivisor = 0.001

	// binStride is the number of frequency bins between adjacent bars.
	binStride = 2
	// binOffset skips the lowest bins, which the bass detector already covers.
	binOffset = 2
)

const (
	defaultBars    = 16
	defaultFFTSize = 128
	defaultFPS     = 60
)

// GainMode selects which per-frame statistic drives the adaptive gain.
type GainMode int

const (
	// GainLastBar adapts once per frame from the last bar's target.
	GainLastBar GainMode = iota
	// GainMean adapts once per frame from the mean target across bars.
	GainMean
	// GainMax adapts once per frame from the largest target across bars.
	GainMax
	// GainPerBar adapts once per bar in bar order and normalizes each bar
	// with the gain it just produced. Bass memory advances per bar too, and
	// a restart clears smoothing and bass memory.
	GainPerBar
)

var gainModeNames = map[GainMode]string{
	GainLastBar: "last-bar",
	GainMean:    "mean",
	GainMax:     "max",
	GainPerBar:  "per-bar",
}

func (m GainMode) String() string {
	if name, ok := gainModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("GainMode(%d)", int(m))
}

// ParseGainMode converts a config/flag value into a GainMode.
func ParseGainMode(s string) (GainMode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return GainLastBar, nil
	}
	for mode, name := range gainModeNames {
		if name == key {
			return mode, nil
		}
	}
	return GainLastBar, fmt.Errorf("unknown gain mode %q", s)
}

// Config is fixed for the lifetime of a Pipeline.
type Config struct {
	Bars        int
	GainMode    GainMode
	ResetOnStop bool
}

// DefaultConfig returns the configuration the radio UI starts with.
func DefaultConfig() Config {
	return Config{Bars: defaultBars, GainMode: GainLastBar}
}

func (c Config) validate() error {
	if c.Bars <= 0 {
		return fmt.Errorf("bar count must be positive, got %d", c.Bars)
	}
	if _, ok := gainModeNames[c.GainMode]; !ok {
		return fmt.Errorf("unknown gain mode %d", int(c.GainMode))
	}
	return nil
}
