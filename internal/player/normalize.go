package player

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	playbackSampleRate     = 44100
	playbackChannels       = 2
	playbackBytesPerSample = 2
	playbackFrameSize      = playbackChannels * playbackBytesPerSample
)

// pcmSource is a decoder producing interleaved s16le PCM.
type pcmSource interface {
	io.Reader
	SampleRate() int
	ChannelCount() int
}

// normalizedReader presents any mono or stereo s16le source as a
// 44.1 kHz stereo stream using linear interpolation. It never seeks, so it
// works on live network streams.
type normalizedReader struct {
	src          pcmSource
	passthrough  bool
	srcRate      int
	srcChannels  int
	srcFrameSize int

	tmp    []byte
	carry  []byte
	frames [][playbackChannels]int16
	idx    int

	primed bool
	prev   [playbackChannels]int16
	next   [playbackChannels]int16
	frac   int64
	srcErr error
	done   bool
}

func newNormalizedReader(src pcmSource) (*normalizedReader, error) {
	sampleRate := src.SampleRate()
	if sampleRate <= 0 {
		return nil, fmt.Errorf("unsupported sample rate: %d", sampleRate)
	}

	channels := src.ChannelCount()
	if channels < 1 || channels > playbackChannels {
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}

	return &normalizedReader{
		src:          src,
		passthrough:  sampleRate == playbackSampleRate && channels == playbackChannels,
		srcRate:      sampleRate,
		srcChannels:  channels,
		srcFrameSize: channels * playbackBytesPerSample,
	}, nil
}

func (d *normalizedReader) SampleRate() int   { return playbackSampleRate }
func (d *normalizedReader) ChannelCount() int { return playbackChannels }

func (d *normalizedReader) Read(p []byte) (int, error) {
	if d.passthrough {
		return d.src.Read(p)
	}
	if len(p) < playbackFrameSize {
		return 0, io.ErrShortBuffer
	}

	if !d.primed {
		first, err := d.readFrame()
		if err != nil {
			return 0, err
		}
		d.prev, d.next = first, first
		if second, err := d.readFrame(); err != nil {
			d.srcErr = err
		} else {
			d.next = second
		}
		d.primed = true
	}

	n := 0
	for n+playbackFrameSize <= len(p) && !d.done {
		binary.LittleEndian.PutUint16(p[n:], uint16(interpolateSample(d.prev[0], d.next[0], d.frac)))
		binary.LittleEndian.PutUint16(p[n+2:], uint16(interpolateSample(d.prev[1], d.next[1], d.frac)))
		n += playbackFrameSize
		d.advance()
	}

	if n == 0 && d.done {
		return 0, d.srcErr
	}
	return n, nil
}

// advance moves the output clock one frame forward, pulling source frames
// as it crosses them. The last source frame is held until it has been
// played for its full duration.
func (d *normalizedReader) advance() {
	d.frac += int64(d.srcRate)
	for d.frac >= playbackSampleRate {
		d.frac -= playbackSampleRate
		if d.srcErr != nil {
			d.done = true
			return
		}
		d.prev = d.next
		next, err := d.readFrame()
		if err != nil {
			d.srcErr = err
			continue
		}
		d.next = next
	}
}

func (d *normalizedReader) readFrame() ([playbackChannels]int16, error) {
	for d.idx >= len(d.frames) {
		if err := d.fill(); err != nil {
			return [playbackChannels]int16{}, err
		}
	}
	f := d.frames[d.idx]
	d.idx++
	return f, nil
}

// fill decodes the next chunk of source frames. Bytes that do not complete
// a frame are carried into the following read.
func (d *normalizedReader) fill() error {
	const chunkFrames = 2048

	size := chunkFrames * d.srcFrameSize
	if cap(d.tmp) < size {
		d.tmp = make([]byte, size)
	}
	buf := d.tmp[:size]

	k := copy(buf, d.carry)
	n, err := d.src.Read(buf[k:])
	n += k

	whole := n / d.srcFrameSize * d.srcFrameSize
	d.carry = append(d.carry[:0], buf[whole:n]...)

	d.frames = d.frames[:0]
	d.idx = 0
	for off := 0; off < whole; off += d.srcFrameSize {
		left := int16(binary.LittleEndian.Uint16(buf[off:]))
		right := left
		if d.srcChannels == 2 {
			right = int16(binary.LittleEndian.Uint16(buf[off+2:]))
		}
		d.frames = append(d.frames, [playbackChannels]int16{left, right})
	}

	if len(d.frames) > 0 {
		return nil
	}
	return err
}

func interpolateSample(a, b int16, fracNum int64) int16 {
	if fracNum == 0 || a == b {
		return a
	}
	diff := int64(int32(b) - int32(a))
	return int16(int64(int32(a)) + (diff*fracNum+playbackSampleRate/2)/playbackSampleRate)
}
