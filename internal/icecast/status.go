// Package icecast reads the now-playing status document an Icecast server
// publishes at status-json.xsl.
package icecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ncafters/afters/internal/util"
)

// ErrMountNotFound is returned when no source matches the requested mount.
var ErrMountNotFound = errors.New("mount not found in icecast status")

// UnknownTrack is reported for sources that publish no title.
const UnknownTrack = "Unknown Track"

// Status is the decoded status document.
type Status struct {
	Stats Stats `json:"icestats"`
}

// Stats holds server-wide fields and the mounted sources.
type Stats struct {
	Admin    string  `json:"admin"`
	Host     string  `json:"host"`
	ServerID string  `json:"server_id"`
	Sources  Sources `json:"source"`
}

// Source is one mount point.
type Source struct {
	ListenURL    string  `json:"listenurl"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	ServerName   string  `json:"server_name"`
	Genre        string  `json:"genre"`
	Listeners    flexInt `json:"listeners"`
	ListenerPeak flexInt `json:"listener_peak"`
	Bitrate      flexInt `json:"bitrate"`
	StreamStart  string  `json:"stream_start_iso8601"`
}

// Sources decodes icestats.source, which Icecast emits as a bare object
// when one mount is live and as an array otherwise.
type Sources []Source

func (s *Sources) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if data[0] == '[' {
		var list []Source
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	var one Source
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*s = Sources{one}
	return nil
}

// flexInt accepts JSON numbers, numeric strings and empty strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		*n = flexInt(f)
		return nil
	}
	*n = 0
	return nil
}

// FindMount returns the first source whose listen URL contains mount.
func FindMount(st *Status, mount string) (*Source, error) {
	if st == nil || mount == "" {
		return nil, ErrMountNotFound
	}
	for i := range st.Stats.Sources {
		src := &st.Stats.Sources[i]
		if src.ListenURL != "" && strings.Contains(src.ListenURL, mount) {
			return src, nil
		}
	}
	return nil, ErrMountNotFound
}

// Song returns the raw now-playing string.
func (s *Source) Song() string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	return UnknownTrack
}

// ListenerCount returns the current listener count.
func (s *Source) ListenerCount() int { return int(s.Listeners) }

// PeakListeners returns the listener peak.
func (s *Source) PeakListeners() int { return int(s.ListenerPeak) }

// BitrateKbps returns the advertised bitrate, or 0 when unknown.
func (s *Source) BitrateKbps() int { return int(s.Bitrate) }

// Uptime returns how long the source has been live at now. ok is false when
// the server did not report a parsable start time.
func (s *Source) Uptime(now time.Time) (string, bool) {
	if s.StreamStart == "" {
		return "", false
	}
	start, err := parseStreamStart(s.StreamStart)
	if err != nil {
		return "", false
	}
	return util.FormatUptime(now.Sub(start)), true
}

var streamStartLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05Z0700",
}

func parseStreamStart(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range streamStartLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
