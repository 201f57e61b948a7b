package player

import "io"

// tapReader copies everything read from src into sink. The visualizer's
// ring buffer sits on the other end.
type tapReader struct {
	src  io.Reader
	sink io.Writer
}

func (t *tapReader) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 && t.sink != nil {
		_, _ = t.sink.Write(p[:n])
	}
	return n, err
}
