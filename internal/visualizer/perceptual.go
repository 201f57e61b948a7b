package visualizer

import "math"

// PositionBias weights bars by distance from the centre: 1 at the centre,
// falling linearly to 0 at the edges.
func PositionBias(i, bars int) float64 {
	half := float64(bars) / 2
	if half == 0 {
		return 0
	}
	return 1 - math.Abs(float64(i)-half)/half
}

// ExpressiveBoost maps a position bias in [0,1] onto [0.9, 1.1].
func ExpressiveBoost(bias float64) float64 {
	return 0.9 + bias*0.2
}

// VisualScale converts playback volume into a display multiplier. Volume
// is floored so bars never go fully flat at zero volume. NaN counts as
// the floor.
func VisualScale(volume float64) float64 {
	vol := volumeFloor
	if volume > volumeFloor {
		vol = min(volume, 1)
	}
	return 0.55 + math.Pow(vol, 0.6)*0.6
}

// MidBin returns the magnitude feeding bar i, or 0 past the end of bins.
func MidBin(bins []byte, i int) float64 {
	return binAt(bins, i*binStride+binOffset)
}

// Perceive computes the pre-gain perceptual intensity for one bar.
func Perceive(mid, bass, expressive, transient, scale float64) float64 {
	raw := (mid*0.6 + bass*0.4) * expressive * transient
	if raw < 0 {
		raw = 0
	}
	compressed := math.Log10(1+raw) * 32
	return compressed * scale
}
