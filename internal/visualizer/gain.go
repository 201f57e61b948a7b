package visualizer

// GainController is a single-scalar adaptive gain. It pulls the gain
// quickly down when the signal overshoots TargetPeak and lets it relax
// slowly upward during quiet passages.
type GainController struct {
	gain float64
}

// NewGainController returns a controller at unity gain.
func NewGainController() GainController {
	return GainController{gain: 1}
}

// PeakError is the gain that would map target exactly onto TargetPeak.
func PeakError(target float64) float64 {
	return TargetPeak / max(target, minGainDivisor)
}

// Adapt moves the gain toward the peak error for target and returns the
// new gain.
func (g *GainController) Adapt(target float64) float64 {
	peakErr := PeakError(target)
	rate := GainRelease
	if peakErr < g.gain {
		rate = GainAttack
	}
	g.gain += (peakErr - g.gain) * rate
	return g.gain
}

// Gain returns the current gain.
func (g *GainController) Gain() float64 { return g.gain }

// Reset returns the controller to unity gain.
func (g *GainController) Reset() { g.gain = 1 }
