// Package visualizer turns live audio into animated bar heights.
//
// The chain per frame is: Sampler (frequency bins) → BassDetector →
// perceptual mapping → GainController → Smoother → BarRenderer.
package visualizer

// Visualizer wires a PCM tap, an analyser, the bar pipeline, the frame
// loop guard and the terminal renderer together.
type Visualizer struct {
	tap      *RingBuffer
	sampler  Sampler
	pipeline *Pipeline
	loop     FrameLoop
	renderer *BarRenderer
}

// Options configures NewVisualizer.
type Options struct {
	Pipeline Config
	FFTSize  int
	FPS      int
	Rows     int
}

// DefaultOptions returns the settings used by the radio UI.
func DefaultOptions() Options {
	return Options{
		Pipeline: DefaultConfig(),
		FFTSize:  defaultFFTSize,
		FPS:      defaultFPS,
		Rows:     4,
	}
}

// NewVisualizer builds a stopped visualizer.
func NewVisualizer(opts Options) (*Visualizer, error) {
	p, err := New(opts.Pipeline)
	if err != nil {
		return nil, err
	}
	tap := NewRingBuffer(max(opts.FFTSize*4, 4096))
	an, err := NewAnalyser(tap, opts.FFTSize)
	if err != nil {
		return nil, err
	}
	return &Visualizer{
		tap:      tap,
		sampler:  an,
		pipeline: p,
		renderer: NewBarRenderer(opts.Rows, opts.FPS),
	}, nil
}

// Tap returns the writer that playback copies PCM into.
func (v *Visualizer) Tap() *RingBuffer { return v.tap }

// Start resumes the pipeline. ok is false when a frame chain is already
// running; the caller schedules the first frame tagged gen only when ok.
func (v *Visualizer) Start() (gen uint64, ok bool) {
	v.pipeline.Start()
	return v.loop.Start()
}

// Stop cancels the frame chain and floors every bar.
func (v *Visualizer) Stop() []float64 {
	v.loop.Stop()
	v.renderer.Reset()
	return v.pipeline.Stop()
}

// Frame runs one frame for the chain tagged gen. It returns false, and
// does nothing, when that chain has been stopped or superseded.
func (v *Visualizer) Frame(gen uint64, volume float64) ([]float64, bool) {
	if !v.loop.Accept(gen) {
		return nil, false
	}
	return v.pipeline.Tick(v.sampler.Sample(), volume), true
}

// Running reports whether a frame chain is active.
func (v *Visualizer) Running() bool { return v.loop.Running() }

// Heights returns the most recent heights.
func (v *Visualizer) Heights() []float64 { return v.pipeline.Heights() }

// View renders the most recent heights.
func (v *Visualizer) View() string { return v.renderer.Render(v.pipeline.Heights()) }
