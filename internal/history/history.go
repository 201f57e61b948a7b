// Package history keeps a short, per-station list of recently played titles.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/eapache/queue"
	"github.com/ncafters/afters/internal/util"
)

// DefaultSize is the number of titles kept per station.
const DefaultSize = 5

// EmptyText is shown for a station with no history.
const EmptyText = "No tracks played yet…"

// Entry is one played title.
type Entry struct {
	Title string
	At    time.Time
}

// History maps station mounts to their recent titles. It lives in memory
// only and is mutated from the UI's update loop.
type History struct {
	size   int
	mounts map[string]*queue.Queue
}

// New creates a History keeping up to size entries per mount.
func New(size int) *History {
	if size <= 0 {
		size = DefaultSize
	}
	return &History{size: size, mounts: make(map[string]*queue.Queue)}
}

// Push records title as the newest entry for mount. It reports whether the
// history changed: empty values and a repeat of the newest title are
// ignored.
func (h *History) Push(mount, title string, at time.Time) bool {
	title = strings.TrimSpace(title)
	if mount == "" || title == "" {
		return false
	}

	q, ok := h.mounts[mount]
	if !ok {
		q = queue.New()
		h.mounts[mount] = q
	}
	if q.Length() > 0 && q.Get(-1).(Entry).Title == title {
		return false
	}

	q.Add(Entry{Title: title, At: at})
	for q.Length() > h.size {
		q.Remove()
	}
	return true
}

// Entries returns the history for mount, newest first.
func (h *History) Entries(mount string) []Entry {
	q, ok := h.mounts[mount]
	if !ok {
		return nil
	}
	out := make([]Entry, q.Length())
	for i := range out {
		out[i] = q.Get(-1 - i).(Entry)
	}
	return out
}

// Latest returns the newest title for mount.
func (h *History) Latest(mount string) (Entry, bool) {
	q, ok := h.mounts[mount]
	if !ok || q.Length() == 0 {
		return Entry{}, false
	}
	return q.Get(-1).(Entry), true
}

// Render formats the history for mount as numbered lines.
func (h *History) Render(mount string, now time.Time) string {
	entries := h.Entries(mount)
	if len(entries) == 0 {
		return EmptyText
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d. %s (%s)", i+1, e.Title, util.TimeAgo(e.At, now))
	}
	return strings.Join(lines, "\n")
}
