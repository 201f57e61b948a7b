package player

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ncafters/afters/internal/media"
)

// FileSource decodes a local recording to 44.1 kHz stereo s16le. It backs
// the offline replay tool.
type FileSource struct {
	io.Reader
	Metadata Metadata
	file     *os.File
}

// OpenFile opens an mp3, wav, flac or ogg file by extension.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := newFileDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	pcm, err := newNormalizedReader(src)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &FileSource{
		Reader:   pcm,
		Metadata: ReadMetadata(path),
		file:     f,
	}, nil
}

func newFileDecoder(f *os.File) (pcmSource, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	if !media.IsSupportedExt(ext) {
		return nil, fmt.Errorf("unsupported format %s (supported: %s)", ext, media.SupportedExtsList())
	}
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg", ".oga":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// Close releases the underlying file.
func (s *FileSource) Close() error { return s.file.Close() }
