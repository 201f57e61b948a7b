package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

type codec int

const (
	codecFFmpeg codec = iota
	codecMP3
	codecVorbis
)

// codecForContentType picks a native decoder for a stream's Content-Type.
// Anything unrecognised goes through ffmpeg.
func codecForContentType(contentType string) codec {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mediaType {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3", "audio/x-mpeg":
		return codecMP3
	case "application/ogg", "audio/ogg", "audio/vorbis", "audio/x-vorbis+ogg":
		return codecVorbis
	default:
		return codecFFmpeg
	}
}

// --- MP3 decoder ---

type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(r io.Reader) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) SampleRate() int            { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int          { return 2 }

// --- OGG Vorbis decoder ---

type oggDecoder struct {
	reader  *oggvorbis.Reader
	buf     []byte
	samples []float32
}

func newOGGDecoder(r io.Reader) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	return &oggDecoder{reader: reader}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		return n, nil
	}

	want := max(len(p)/2, d.reader.Channels())
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	samples := d.samples[:want]
	n, err := d.reader.Read(samples)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, nil
	}

	raw := make([]byte, n*2)
	for i, s := range samples[:n] {
		s = min(max(s, -1), 1)
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(int16(s*32767)))
	}

	written := copy(p, raw)
	if written < len(raw) {
		d.buf = raw[written:]
		err = nil
	}
	return written, err
}

func (d *oggDecoder) SampleRate() int   { return d.reader.SampleRate() }
func (d *oggDecoder) ChannelCount() int { return d.reader.Channels() }

// --- WAV decoder ---

type wavDecoder struct {
	dec      *wav.Decoder
	pcm      *audio.IntBuffer
	buf      []byte
	channels int
	bitDepth int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	channels := int(dec.NumChans)
	return &wavDecoder{
		dec: dec,
		pcm: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
			Data:   make([]int, 2048*channels),
		},
		channels: channels,
		bitDepth: int(dec.BitDepth),
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		return n, nil
	}

	n, err := d.dec.PCMBuffer(d.pcm)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("reading WAV samples: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	raw := make([]byte, n*2)
	for i, v := range d.pcm.Data[:n] {
		if d.bitDepth == 8 {
			v -= 128
		}
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(to16(v, d.bitDepth)))
	}

	written := copy(p, raw)
	if written < len(raw) {
		d.buf = raw[written:]
	}
	return written, nil
}

func (d *wavDecoder) SampleRate() int   { return int(d.dec.SampleRate) }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC decoder ---

type flacDecoder struct {
	stream     *flac.Stream
	buf        []byte
	sampleRate int
	channels   int
	bps        int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	return &flacDecoder{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bps:        int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		n := copy(p, d.buf)
		d.buf = d.buf[n:]
		return n, nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*2)
	for i := range nSamples {
		for ch := range d.channels {
			sample := to16(int(frame.Subframes[ch].Samples[i]), d.bps)
			offset := (i*d.channels + ch) * 2
			binary.LittleEndian.PutUint16(raw[offset:], uint16(sample))
		}
	}

	written := copy(p, raw)
	if written < len(raw) {
		d.buf = raw[written:]
	}
	return written, nil
}

func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// to16 rescales a signed sample of the given bit depth to 16 bits.
func to16(sample, bits int) int16 {
	switch {
	case bits > 16:
		sample >>= bits - 16
	case bits < 16:
		sample <<= 16 - bits
	}
	return int16(min(max(sample, -32768), 32767))
}
