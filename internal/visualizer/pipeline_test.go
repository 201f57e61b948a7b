package visualizer

import (
	"math"
	"math/rand"
	"testing"
)

func newRunningPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	p.Start()
	return p
}

func constantBins(v byte) []byte {
	bins := make([]byte, 64)
	for i := range bins {
		bins[i] = v
	}
	return bins
}

func variance(xs []float64) float64 {
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	v := 0.0
	for _, x := range xs {
		v += (x - mean) * (x - mean)
	}
	return v / float64(len(xs))
}

func TestNewRejectsInvalidBarCount(t *testing.T) {
	if _, err := New(Config{Bars: 0}); err == nil {
		t.Fatal("expected error for zero bars")
	}
}

func TestHeightsAlwaysWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, mode := range []GainMode{GainLastBar, GainMean, GainMax, GainPerBar} {
		p := newRunningPipeline(t, Config{Bars: 24, GainMode: mode})
		bins := make([]byte, 64)
		for frame := range 2000 {
			for i := range bins {
				bins[i] = byte(rng.Intn(256))
			}
			if frame%50 < 10 {
				clear(bins)
			}
			vol := rng.Float64()
			for i, h := range p.Tick(bins, vol) {
				if h < MinHeight || h > MaxHeight || math.IsNaN(h) {
					t.Fatalf("%v frame %d bar %d: height %v out of range", mode, frame, i, h)
				}
				if s := p.Smoothed(i); s < 0 || math.IsInf(s, 0) || math.IsNaN(s) {
					t.Fatalf("%v frame %d bar %d: smoothed %v not finite and non-negative", mode, frame, i, s)
				}
			}
		}
	}
}

func TestSilenceSettlesToFloor(t *testing.T) {
	p := newRunningPipeline(t, Config{Bars: 16})
	for range 60 {
		p.Tick(constantBins(180), 1)
	}

	silent := make([]byte, 64)
	prevGain := p.Gain()
	var heights []float64
	for frame := range 120 {
		heights = p.Tick(silent, 1)
		g := p.Gain()
		if g < prevGain {
			t.Fatalf("frame %d: expected gain to rise on silence, got %v -> %v", frame, prevGain, g)
		}
		bound := GainRelease*math.Abs(PeakError(0)-prevGain) + 1e-9
		if g-prevGain > bound {
			t.Fatalf("frame %d: gain step %v exceeds release bound %v", frame, g-prevGain, bound)
		}
		prevGain = g
	}
	for i, h := range heights {
		if h != MinHeight {
			t.Fatalf("bar %d: expected floor height, got %v", i, h)
		}
	}
}

// Once-per-frame gain settles more slowly than per-bar gain: after 200
// frames last-bar still shows smoothed variance near 0.09 on the centre
// bars, so it is held to 600 frames.
func TestConstantInputConvergesLastBar(t *testing.T) {
	p := newRunningPipeline(t, Config{Bars: 16})
	assertConverges(t, p, 600)
}

func TestConstantInputConvergesPerBar(t *testing.T) {
	p := newRunningPipeline(t, Config{Bars: 16, GainMode: GainPerBar})
	assertConverges(t, p, 200)
}

func assertConverges(t *testing.T, p *Pipeline, frames int) {
	t.Helper()
	bars := p.Config().Bars
	const window = 20
	history := make([][]float64, bars)
	gains := make([]float64, 0, window)

	bins := constantBins(128)
	for frame := range frames {
		p.Tick(bins, 0.8)
		if frame < frames-window {
			continue
		}
		for i := range bars {
			history[i] = append(history[i], p.Smoothed(i))
		}
		gains = append(gains, p.Gain())
	}

	for i, h := range history {
		if v := variance(h); v >= 0.01 {
			t.Fatalf("bar %d: expected smoothed variance < 0.01, got %v", i, v)
		}
	}
	if v := variance(gains); v >= 1e-6 {
		t.Fatalf("expected gain to stabilise, variance %v", v)
	}
}

// browserDraw is a direct transcription of the browser front end's draw
// loop: one bass memory updated per bar, one global gain, and smoothing
// memory that is recreated on every start.
type browserDraw struct {
	gain         float64
	lastBass     float64
	smoothed     []float64
	prevSmoothed []float64
}

func (d *browserDraw) start(bars int) {
	d.lastBass = 0
	d.smoothed = make([]float64, bars)
	d.prevSmoothed = make([]float64, bars)
}

func (d *browserDraw) frame(data []byte, volume float64) []float64 {
	at := func(i int) float64 {
		if i < len(data) {
			return float64(data[i])
		}
		return 0
	}
	vol := math.Max(0.15, volume)
	visualScale := 0.55 + math.Pow(vol, 0.6)*0.6
	n := len(d.smoothed)
	heights := make([]float64, n)
	for i := range n {
		bass := (at(1) + at(2) + at(3)) / 3
		mid := at(i*2 + 2)
		positionBias := 1 - math.Abs(float64(i)-float64(n)/2)/(float64(n)/2)
		expressiveBoost := 0.9 + positionBias*0.2

		bassDelta := math.Max(0, bass-d.lastBass)
		d.lastBass = bass
		transientBoost := 1.0
		if bassDelta > 6 {
			transientBoost = 1 + math.Min(bassDelta/32, 0.8)
		}

		raw := (mid*0.6 + bass*0.4) * expressiveBoost * transientBoost
		target := math.Log10(1+raw) * 32 * visualScale

		peakError := 14 / math.Max(target, 0.001)
		if peakError < d.gain {
			d.gain += (peakError - d.gain) * 0.015
		} else {
			d.gain += (peakError - d.gain) * 0.004
		}
		normalized := target * d.gain

		d.smoothed[i] = d.smoothed[i]*0.75 + normalized*0.25
		delta := math.Abs(d.smoothed[i] - d.prevSmoothed[i])
		d.prevSmoothed[i] = d.smoothed[i]
		reactive := d.smoothed[i] + math.Min(delta*2.4, 8)
		curved := math.Pow(reactive/20, 0.75) * 20
		heights[i] = math.Max(4, math.Min(20, curved))
	}
	return heights
}

func TestPerBarMatchesBrowserDrawLoop(t *testing.T) {
	const bars = 16
	p := newRunningPipeline(t, Config{Bars: bars, GainMode: GainPerBar})
	ref := &browserDraw{gain: 1}
	ref.start(bars)

	frameBins := func(bass byte, frame int) []byte {
		bins := make([]byte, 64)
		for i := range bins {
			bins[i] = byte((i*37 + frame*11) % 256)
		}
		bins[1], bins[2], bins[3] = bass, bass, bass
		return bins
	}
	check := func(label string, bassSeq []byte) {
		for frame, bass := range bassSeq {
			bins := frameBins(bass, frame)
			want := ref.frame(bins, 0.8)
			got := p.Tick(bins, 0.8)
			for i := range want {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Fatalf("%s frame %d bar %d: expected %v, got %v", label, frame, i, want[i], got[i])
				}
			}
		}
	}

	check("first run", []byte{10, 10, 10, 40, 10})

	p.Stop()
	p.Start()
	ref.start(bars)
	check("after restart", []byte{40, 10, 200, 0, 90})
}

func TestPerBarTransientOnlyReachesFirstBar(t *testing.T) {
	p := newRunningPipeline(t, Config{Bars: 4, GainMode: GainPerBar})
	p.Tick(constantBins(10), 1)
	quiet := append([]float64(nil), p.Targets()...)

	bins := constantBins(10)
	bins[1], bins[2], bins[3] = 40, 40, 40
	p.Tick(bins, 1)
	loud := p.Targets()

	boosted := Perceive(MidBin(bins, 0), 40, ExpressiveBoost(PositionBias(0, 4)), 1.8, VisualScale(1))
	if math.Abs(loud[0]-boosted) > 1e-12 {
		t.Fatalf("expected bar 0 to carry the 1.8 transient, got target %v want %v", loud[0], boosted)
	}
	plain := Perceive(MidBin(bins, 1), 40, ExpressiveBoost(PositionBias(1, 4)), 1, VisualScale(1))
	if math.Abs(loud[1]-plain) > 1e-12 {
		t.Fatalf("expected bar 1 to see no transient, got target %v want %v", loud[1], plain)
	}
	if quiet[0] == loud[0] {
		t.Fatal("expected louder bass to change bar 0")
	}
}

func TestGainAppliedFromLastBar(t *testing.T) {
	p := newRunningPipeline(t, Config{Bars: 8})
	bins := make([]byte, 64)
	for i := range bins {
		bins[i] = byte(i * 4)
	}
	p.Tick(bins, 0.5)

	last := p.Targets()[7]
	g := NewGainController()
	want := g.Adapt(last)
	if got := p.Gain(); got != want {
		t.Fatalf("expected gain %v from last bar target, got %v", want, got)
	}
}

func TestGainModesUseFrameStatistic(t *testing.T) {
	bins := make([]byte, 64)
	for i := range bins {
		bins[i] = byte(255 - i*3)
	}

	for _, mode := range []GainMode{GainMean, GainMax} {
		p := newRunningPipeline(t, Config{Bars: 8, GainMode: mode})
		p.Tick(bins, 1)

		stat := 0.0
		for _, v := range p.Targets() {
			if mode == GainMax {
				stat = max(stat, v)
			} else {
				stat += v / 8
			}
		}
		g := NewGainController()
		want := g.Adapt(stat)
		if got := p.Gain(); math.Abs(got-want) > 1e-12 {
			t.Fatalf("%v: expected gain %v, got %v", mode, want, got)
		}
	}
}

func TestStopFloorsHeightsAndIgnoresFrames(t *testing.T) {
	p := newRunningPipeline(t, Config{Bars: 8})
	for range 20 {
		p.Tick(constantBins(200), 1)
	}
	gain := p.Gain()

	for i, h := range p.Stop() {
		if h != MinHeight {
			t.Fatalf("bar %d: expected floor after stop, got %v", i, h)
		}
	}
	if p.Running() {
		t.Fatal("expected pipeline to be stopped")
	}

	p.Tick(constantBins(10), 1)
	if p.Gain() != gain {
		t.Fatalf("expected stopped pipeline to ignore frames, gain %v -> %v", gain, p.Gain())
	}
	for i, h := range p.Heights() {
		if h != MinHeight {
			t.Fatalf("bar %d: expected floor while stopped, got %v", i, h)
		}
	}
}

// Restarting keeps the pre-stop smoothing, gain and detector memory, so a
// resumed pipeline does not reproduce a fresh one.
func TestResumeContinuity(t *testing.T) {
	probe := constantBins(5)

	run := func(resetOnStop bool) []float64 {
		p := newRunningPipeline(t, Config{Bars: 16, ResetOnStop: resetOnStop})
		for range 40 {
			p.Tick(constantBins(250), 1)
		}
		p.Stop()
		p.Start()
		var out []float64
		for range 5 {
			out = append(out, p.Tick(probe, 0.6)...)
		}
		return out
	}

	fresh := newRunningPipeline(t, Config{Bars: 16})
	var want []float64
	for range 5 {
		want = append(want, fresh.Tick(probe, 0.6)...)
	}

	resumed := run(false)
	if equalHeights(resumed, want) {
		t.Fatal("expected resumed heights to depend on residual state")
	}
	if reset := run(true); !equalHeights(reset, want) {
		t.Fatal("expected reset-on-stop to reproduce a fresh pipeline")
	}
}

func equalHeights(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseGainMode(t *testing.T) {
	for _, name := range []string{"last-bar", "mean", "max", "per-bar"} {
		mode, err := ParseGainMode(name)
		if err != nil {
			t.Fatalf("ParseGainMode(%q) returned error: %v", name, err)
		}
		if mode.String() != name {
			t.Fatalf("expected %q, got %q", name, mode.String())
		}
	}
	if mode, err := ParseGainMode(""); err != nil || mode != GainLastBar {
		t.Fatalf("expected empty mode to default to last-bar, got %v, %v", mode, err)
	}
	if _, err := ParseGainMode("loudest"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
