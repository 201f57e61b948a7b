package player

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"sync"
	"time"

	"github.com/ncafters/afters/internal/media"
)

const (
	userAgent           = "afters"
	streamHeaderTimeout = 8 * time.Second
)

var streamHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DisableCompression:    true,
		ResponseHeaderTimeout: streamHeaderTimeout,
	},
}

// liveStream is one open connection to a station: the HTTP body, the ICY
// demuxer in front of it and the decoder producing 44.1 kHz stereo PCM.
type liveStream struct {
	cancel      context.CancelFunc
	body        io.ReadCloser
	icy         *icyReader
	pcm         io.Reader
	ffmpeg      *ffmpegDecoder
	contentType string
	done        chan struct{}
	closeOnce   sync.Once
}

func openStream(ctx context.Context, client *http.Client, rawURL string) (*liveStream, error) {
	if client == nil {
		client = streamHTTPClient
	}
	streamURL, err := media.ResolveStream(ctx, client, rawURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("building stream request: %w", err)
	}
	req.Header.Set("Icy-MetaData", "1")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connecting to %s: %w", streamURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("connecting to %s: unexpected status %s", streamURL, resp.Status)
	}

	metaInt, err := parseICYMetaInt(resp.Header.Get("icy-metaint"))
	if err != nil {
		resp.Body.Close()
		cancel()
		return nil, err
	}

	s := &liveStream{
		cancel:      cancel,
		body:        resp.Body,
		icy:         newICYReader(resp.Body, metaInt),
		contentType: resp.Header.Get("Content-Type"),
		done:        make(chan struct{}),
	}

	src, err := s.decoder()
	if err != nil {
		s.Close()
		return nil, err
	}
	pcm, err := newNormalizedReader(src)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.pcm = pcm
	return s, nil
}

func (s *liveStream) decoder() (pcmSource, error) {
	switch codecForContentType(s.contentType) {
	case codecMP3:
		return newMP3Decoder(s.icy)
	case codecVorbis:
		return newOGGDecoder(s.icy)
	default:
		d, err := newFFmpegDecoder(s.icy)
		if err != nil {
			return nil, err
		}
		s.ffmpeg = d
		return d, nil
	}
}

func (s *liveStream) Read(p []byte) (int, error) { return s.pcm.Read(p) }

// Titles delivers in-band StreamTitle changes.
func (s *liveStream) Titles() <-chan string { return s.icy.Titles() }

// Done is closed once the stream has been closed.
func (s *liveStream) Done() <-chan struct{} { return s.done }

func (s *liveStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.body.Close()
		if s.ffmpeg != nil {
			_ = s.ffmpeg.Close()
		}
		close(s.done)
	})
	return err
}

// ffmpegDecoder transcodes whatever arrives on stdin to s16le 44.1 kHz
// stereo. It covers AAC and any other codec without a native decoder.
type ffmpegDecoder struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	waitDone  chan struct{}
	closeOnce sync.Once
}

func newFFmpegDecoder(r io.Reader) (*ffmpegDecoder, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found (required for this stream format)")
	}

	cmd := exec.Command(
		ffmpeg,
		"-hide_banner",
		"-loglevel", "error",
		"-i", "pipe:0",
		"-vn",
		"-ac", "2",
		"-ar", "44100",
		"-f", "s16le",
		"pipe:1",
	)
	cmd.Stdin = r
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("setting up ffmpeg stream: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg stream: %w", err)
	}

	d := &ffmpegDecoder{
		cmd:      cmd,
		stdout:   stdout,
		waitDone: make(chan struct{}),
	}
	go func() {
		_ = cmd.Wait()
		close(d.waitDone)
	}()
	return d, nil
}

func (d *ffmpegDecoder) Read(p []byte) (int, error) { return d.stdout.Read(p) }
func (d *ffmpegDecoder) SampleRate() int            { return playbackSampleRate }
func (d *ffmpegDecoder) ChannelCount() int          { return playbackChannels }

func (d *ffmpegDecoder) Close() error {
	d.closeOnce.Do(func() {
		if d.cmd.Process != nil {
			_ = d.cmd.Process.Kill()
		}
		<-d.waitDone
	})
	return nil
}
