package visualizer

import (
	"encoding/binary"
	"sync"
)

const pcmFrameSize = 4 // s16le stereo

// RingBuffer is a thread-safe circular buffer of mono samples in [-1, 1].
// Writes take interleaved s16le stereo PCM; partial frames are carried
// over to the next write.
type RingBuffer struct {
	buf     []float64
	size    int
	w       int // write position
	len     int // current fill level
	partial [pcmFrameSize]byte
	npart   int
	mu      sync.Mutex
}

// NewRingBuffer creates a ring buffer holding up to size mono samples.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		buf:  make([]float64, size),
		size: size,
	}
}

// Write mixes s16le stereo PCM down to mono and appends it, overwriting
// the oldest samples when full. It never fails.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(p)
	if rb.npart > 0 {
		k := copy(rb.partial[rb.npart:], p)
		rb.npart += k
		p = p[k:]
		if rb.npart < pcmFrameSize {
			return n, nil
		}
		rb.push(rb.partial[:])
		rb.npart = 0
	}

	for len(p) >= pcmFrameSize {
		rb.push(p[:pcmFrameSize])
		p = p[pcmFrameSize:]
	}
	rb.npart = copy(rb.partial[:], p)
	return n, nil
}

func (rb *RingBuffer) push(frame []byte) {
	l := int16(binary.LittleEndian.Uint16(frame))
	r := int16(binary.LittleEndian.Uint16(frame[2:]))
	rb.buf[rb.w] = (float64(l) + float64(r)) / 65536.0
	rb.w = (rb.w + 1) % rb.size
	if rb.len < rb.size {
		rb.len++
	}
}

// Samples returns the n most recent samples in chronological order. When
// fewer than n are buffered the front of the result is zero-padded.
func (rb *RingBuffer) Samples(n int) []float64 {
	out := make([]float64, n)
	rb.mu.Lock()
	defer rb.mu.Unlock()

	have := min(n, rb.len)
	start := (rb.w - have + rb.size) % rb.size
	pad := n - have
	for i := range have {
		out[pad+i] = rb.buf[(start+i)%rb.size]
	}
	return out
}

// Len returns the number of buffered samples.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.len
}

// Clear resets the buffer.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.w = 0
	rb.len = 0
	rb.npart = 0
}
