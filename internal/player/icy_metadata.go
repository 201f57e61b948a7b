package player

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// icyReader strips in-band ICY metadata blocks from a stream body and
// publishes changed StreamTitle values. With a zero interval it passes the
// body through untouched.
type icyReader struct {
	r         io.Reader
	metaInt   int
	remaining int

	mu        sync.Mutex
	lastTitle string
	titles    chan string
}

func newICYReader(r io.Reader, metaInt int) *icyReader {
	return &icyReader{
		r:         r,
		metaInt:   metaInt,
		remaining: metaInt,
		titles:    make(chan string, 1),
	}
}

// Titles delivers each new stream title. Only the latest pending title is
// kept when the consumer falls behind.
func (ir *icyReader) Titles() <-chan string { return ir.titles }

func (ir *icyReader) Read(p []byte) (int, error) {
	if ir.metaInt <= 0 {
		return ir.r.Read(p)
	}
	if ir.remaining == 0 {
		if err := ir.readMetadata(); err != nil {
			return 0, err
		}
		ir.remaining = ir.metaInt
	}
	if len(p) > ir.remaining {
		p = p[:ir.remaining]
	}
	n, err := ir.r.Read(p)
	ir.remaining -= n
	return n, err
}

func (ir *icyReader) readMetadata() error {
	var metaLen [1]byte
	if _, err := io.ReadFull(ir.r, metaLen[:]); err != nil {
		return err
	}

	size := int(metaLen[0]) * 16
	if size == 0 {
		return nil
	}

	block := make([]byte, size)
	if _, err := io.ReadFull(ir.r, block); err != nil {
		return err
	}

	if title := extractICYStreamTitle(block); title != "" {
		ir.publish(title)
	}
	return nil
}

func (ir *icyReader) publish(title string) {
	ir.mu.Lock()
	defer ir.mu.Unlock()
	if title == ir.lastTitle {
		return
	}
	ir.lastTitle = title

	for {
		select {
		case ir.titles <- title:
			return
		default:
		}
		select {
		case <-ir.titles:
		default:
		}
	}
}

// parseICYMetaInt reads the icy-metaint header. A missing header means the
// server sends no in-band metadata.
func parseICYMetaInt(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid icy-metaint %q", value)
	}
	return n, nil
}

func extractICYStreamTitle(block []byte) string {
	raw := strings.TrimRight(string(block), "\x00")
	if raw == "" {
		return ""
	}

	lower := strings.ToLower(raw)
	const marker = "streamtitle='"
	start := strings.Index(lower, marker)
	if start < 0 {
		return ""
	}
	start += len(marker)

	end := strings.Index(raw[start:], "';")
	if end < 0 {
		end = strings.LastIndex(raw[start:], "'")
	}
	if end < 0 {
		return ""
	}

	return strings.TrimSpace(raw[start : start+end])
}
