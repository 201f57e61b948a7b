package player

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// DefaultVolume is the initial output level.
const DefaultVolume = 0.8

var (
	// ErrNotPlaying is returned by controls that need an open station.
	ErrNotPlaying = errors.New("no station playing")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("player closed")
)

// output is the slice of oto.Player the Player drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(float64)
	Err() error
}

// Player plays one live station at a time through a shared oto context and
// copies the decoded PCM into a sink for the visualizer.
type Player struct {
	mu     sync.Mutex
	client *http.Client
	sink   io.Writer
	open   func(ctx context.Context, url string) (*liveStream, error)
	newOut func(r io.Reader) (output, error)
	stream *liveStream
	out    output
	url    string
	seq    uint64
	volume float64
	paused bool
	closed bool
	titles chan string
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   playbackSampleRate,
			ChannelCount: playbackChannels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

func newOtoOutput(r io.Reader) (output, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, err
	}
	return ctx.NewPlayer(r), nil
}

// New creates an idle player. sink may be nil; when it also has a
// Clear method it is cleared on every station change.
func New(sink io.Writer, volume float64) *Player {
	p := &Player{
		client: streamHTTPClient,
		sink:   sink,
		newOut: newOtoOutput,
		volume: clampVolume(volume),
		titles: make(chan string, 1),
	}
	p.open = func(ctx context.Context, url string) (*liveStream, error) {
		return openStream(ctx, p.client, url)
	}
	return p
}

// Play connects to url and starts playback, replacing any current station.
// When another Play supersedes this one while it is still connecting, the
// late stream or connection error is discarded and Play returns nil.
func (p *Player) Play(url string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.seq++
	seq := p.seq
	p.stopLocked()
	p.url = url
	p.mu.Unlock()

	s, err := p.open(context.Background(), url)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		if seq != p.seq {
			return nil
		}
		return err
	}
	if p.closed {
		s.Close()
		return ErrClosed
	}
	if seq != p.seq {
		s.Close()
		return nil
	}

	if c, ok := p.sink.(interface{ Clear() }); ok {
		c.Clear()
	}
	out, err := p.newOut(&tapReader{src: s, sink: p.sink})
	if err != nil {
		s.Close()
		return err
	}
	out.SetVolume(p.volume)
	out.Play()

	p.stream = s
	p.out = out
	p.paused = false
	go p.forwardTitles(s)
	log.Printf("player: playing %s (%s)", url, s.contentType)
	return nil
}

// Reconnect reopens the last station, which jumps back to the live edge.
func (p *Player) Reconnect() error {
	p.mu.Lock()
	url := p.url
	p.mu.Unlock()
	if url == "" {
		return ErrNotPlaying
	}
	return p.Play(url)
}

func (p *Player) forwardTitles(s *liveStream) {
	for {
		select {
		case title := <-s.Titles():
			select {
			case <-p.titles:
			default:
			}
			select {
			case p.titles <- title:
			default:
			}
		case <-s.Done():
			return
		}
	}
}

// TitleUpdates delivers in-band track titles of the playing station.
func (p *Player) TitleUpdates() <-chan string { return p.titles }

// TogglePause pauses or resumes output. The connection stays open.
func (p *Player) TogglePause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return ErrNotPlaying
	}
	if p.paused {
		p.out.Play()
	} else {
		p.out.Pause()
	}
	p.paused = !p.paused
	return nil
}

// Paused reports whether output is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Playing reports whether a station is open and not paused.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out != nil && !p.paused
}

// URL returns the current or last station URL.
func (p *Player) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Err returns the output error, if playback has failed.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return nil
	}
	return p.out.Err()
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
	if p.out != nil {
		p.out.SetVolume(p.volume)
	}
}

// AdjustVolume adjusts volume by delta.
func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Stop closes the current station. The URL is kept for Reconnect.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.out != nil {
		p.out.Pause()
		p.out = nil
	}
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
	p.paused = false
}

// Close stops playback and rejects further use.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.stopLocked()
}

func clampVolume(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	return min(v, 1)
}
