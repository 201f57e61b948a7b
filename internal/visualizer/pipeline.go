package visualizer

// Pipeline turns one frame of frequency bins plus the playback volume into
// one height per bar. All state lives on the Pipeline, so independent
// visualizers never share smoothing, gain or detector memory. A Pipeline is
// driven from a single goroutine and is not safe for concurrent use.
type Pipeline struct {
	cfg      Config
	detector BassDetector
	gain     GainController
	smoother *Smoother
	targets  []float64
	heights  []float64
	running  bool
}

// New creates a stopped pipeline.
func New(cfg Config) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:      cfg,
		gain:     NewGainController(),
		smoother: NewSmoother(cfg.Bars),
		targets:  make([]float64, cfg.Bars),
		heights:  make([]float64, cfg.Bars),
	}
	p.floorHeights()
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() Config { return p.cfg }

// Start moves the pipeline to running. Smoothing, gain and detector state
// carry over from before the last Stop, except in GainPerBar mode, where a
// restart clears smoothing and bass memory and keeps only the gain.
func (p *Pipeline) Start() {
	if p.running {
		return
	}
	p.running = true
	if p.cfg.GainMode == GainPerBar {
		p.detector.Reset()
		p.smoother.Reset()
	}
}

// Stop moves the pipeline to stopped and drops every bar to MinHeight.
// The returned slice is the reset heights. Smoothing, gain and detector
// state are kept unless the pipeline was configured with ResetOnStop.
func (p *Pipeline) Stop() []float64 {
	p.running = false
	if p.cfg.ResetOnStop {
		p.Reset()
	}
	p.floorHeights()
	return p.heights
}

// Running reports whether frames are being processed.
func (p *Pipeline) Running() bool { return p.running }

// Reset clears smoothing, gain and detector state.
func (p *Pipeline) Reset() {
	p.detector.Reset()
	p.gain.Reset()
	p.smoother.Reset()
	clear(p.targets)
}

// Tick processes one frame and returns the bar heights. The returned slice
// is reused by the next call. A stopped pipeline ignores the frame and
// returns the floor heights.
func (p *Pipeline) Tick(bins []byte, volume float64) []float64 {
	if !p.running {
		return p.heights
	}

	scale := VisualScale(volume)
	if p.cfg.GainMode == GainPerBar {
		return p.tickPerBar(bins, scale)
	}

	bass, transient := p.detector.Observe(bins)
	n := p.cfg.Bars
	for i := range n {
		expressive := ExpressiveBoost(PositionBias(i, n))
		p.targets[i] = Perceive(MidBin(bins, i), bass, expressive, transient, scale)
	}

	g := p.gain.Adapt(p.frameTarget())
	for i, target := range p.targets {
		p.heights[i] = p.smoother.Step(i, target*g)
	}
	return p.heights
}

// tickPerBar runs every stage bar by bar. The detector compares against
// the bass seen by the previous bar, so within a frame only bar 0 can see
// a transient, and the first frame after a start measures from zero.
func (p *Pipeline) tickPerBar(bins []byte, scale float64) []float64 {
	bass := BassEnergy(bins)
	n := p.cfg.Bars
	for i := range n {
		transient := p.detector.follow(bass)
		expressive := ExpressiveBoost(PositionBias(i, n))
		target := Perceive(MidBin(bins, i), bass, expressive, transient, scale)
		p.targets[i] = target
		g := p.gain.Adapt(target)
		p.heights[i] = p.smoother.Step(i, target*g)
	}
	return p.heights
}

// Heights returns the most recent bar heights.
func (p *Pipeline) Heights() []float64 { return p.heights }

// Gain returns the current adaptive gain.
func (p *Pipeline) Gain() float64 { return p.gain.Gain() }

// Smoothed returns the smoothed intensity of bar i.
func (p *Pipeline) Smoothed(i int) float64 { return p.smoother.Smoothed(i) }

// Targets returns the pre-gain intensities computed in the last frame.
func (p *Pipeline) Targets() []float64 { return p.targets }

func (p *Pipeline) frameTarget() float64 {
	switch p.cfg.GainMode {
	case GainMean:
		sum := 0.0
		for _, t := range p.targets {
			sum += t
		}
		return sum / float64(len(p.targets))
	case GainMax:
		peak := 0.0
		for _, t := range p.targets {
			peak = max(peak, t)
		}
		return peak
	default:
		return p.targets[len(p.targets)-1]
	}
}

func (p *Pipeline) floorHeights() {
	for i := range p.heights {
		p.heights[i] = MinHeight
	}
}
