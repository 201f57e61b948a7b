package visualizer

// BassDetector tracks low-frequency energy between frames and flags
// sudden upward jumps as transients.
type BassDetector struct {
	lastBass float64
	primed   bool
}

// BassEnergy returns the mean of bins 1 to 3. Missing bins count as zero.
func BassEnergy(bins []byte) float64 {
	return (binAt(bins, 1) + binAt(bins, 2) + binAt(bins, 3)) / 3
}

// TransientBoost maps a frame-over-frame bass increase to a multiplier in
// [1, 1+transientCap].
func TransientBoost(bassDelta float64) float64 {
	if bassDelta <= transientThreshold {
		return 1
	}
	return 1 + min(bassDelta/transientDivisor, transientCap)
}

// Observe consumes one frame's bins and returns the bass energy and the
// transient multiplier shared by every bar in that frame. The first frame
// only records a baseline.
func (d *BassDetector) Observe(bins []byte) (bass, boost float64) {
	bass = BassEnergy(bins)
	if !d.primed {
		d.primed = true
		d.lastBass = bass
		return bass, 1
	}
	delta := max(0, bass-d.lastBass)
	d.lastBass = bass
	return bass, TransientBoost(delta)
}

// follow compares bass with the last value seen, without priming, so the
// first call after a Reset measures against zero.
func (d *BassDetector) follow(bass float64) float64 {
	delta := max(0, bass-d.lastBass)
	d.lastBass = bass
	d.primed = true
	return TransientBoost(delta)
}

// LastBass returns the previous frame's bass energy.
func (d *BassDetector) LastBass() float64 { return d.lastBass }

// Reset forgets the baseline.
func (d *BassDetector) Reset() {
	d.lastBass = 0
	d.primed = false
}

func binAt(bins []byte, i int) float64 {
	if i < 0 || i >= len(bins) {
		return 0
	}
	return float64(bins[i])
}
