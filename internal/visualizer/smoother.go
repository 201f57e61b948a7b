package visualizer

import "math"

type barState struct {
	smoothed     float64
	prevSmoothed float64
}

// Smoother holds per-bar exponential smoothing memory and turns normalized
// intensities into clamped heights.
type Smoother struct {
	bars []barState
}

// NewSmoother allocates state for n bars.
func NewSmoother(n int) *Smoother {
	return &Smoother{bars: make([]barState, n)}
}

// Step advances bar i by one frame and returns its height.
func (s *Smoother) Step(i int, normalized float64) float64 {
	b := &s.bars[i]
	b.smoothed = b.smoothed*smoothingKeep + normalized*smoothingMix

	delta := math.Abs(b.smoothed - b.prevSmoothed)
	b.prevSmoothed = b.smoothed

	reactive := b.smoothed + min(delta*reactivityScale, reactivityCap)
	return ShapeHeight(reactive)
}

// Smoothed returns the smoothed intensity of bar i.
func (s *Smoother) Smoothed(i int) float64 { return s.bars[i].smoothed }

// Len returns the number of bars.
func (s *Smoother) Len() int { return len(s.bars) }

// Reset zeroes all smoothing memory.
func (s *Smoother) Reset() {
	clear(s.bars)
}

// ShapeHeight applies the sub-linear height curve and clamps the result to
// [MinHeight, MaxHeight].
func ShapeHeight(reactive float64) float64 {
	if reactive <= 0 {
		return MinHeight
	}
	curved := math.Pow(reactive/MaxHeight, heightCurve) * MaxHeight
	return clampHeight(curved)
}

func clampHeight(h float64) float64 {
	if math.IsNaN(h) {
		return MinHeight
	}
	return max(MinHeight, min(MaxHeight, h))
}
