package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/ncafters/afters/internal/config"
	"github.com/ncafters/afters/internal/icecast"
	"github.com/ncafters/afters/internal/util"
)

const (
	dateLayout = "Mon Jan 2"
	timeLayout = "3:04 PM"
	noValue    = "—"
)

type stationItem struct {
	station config.Station
}

func (i stationItem) Title() string { return i.station.Name }
func (i stationItem) Description() string {
	if i.station.Mount != "" {
		return i.station.Mount
	}
	return i.station.Stream
}
func (i stationItem) FilterValue() string { return i.station.Name }

func newStationList(stations []config.Station) list.Model {
	items := make([]list.Item, len(stations))
	for i, s := range stations {
		items[i] = stationItem{station: s}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}).
		BorderLeftForeground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"})

	l := list.New(items, delegate, 40, stationListHeight(len(stations)))
	l.Title = "Stations"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

func stationListHeight(n int) int {
	return n*3 + 2
}

func newVolumeBar() progress.Model {
	return progress.New(
		progress.WithScaledGradient("#00AEFF", "#FF503C"),
		progress.WithoutPercentage(),
		progress.WithWidth(20),
	)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func formatClock(now time.Time) (date, clock string) {
	return now.Format(dateLayout), now.Format(timeLayout)
}

// metadataRows returns the label/value pairs of the server panel.
func metadataRows(mount string, src *icecast.Source, now time.Time) [][2]string {
	if mount == "" {
		mount = noValue
	}
	listeners, peak, bitrate, uptime := "0", "0", util.FormatKbps(0), noValue
	if src != nil {
		listeners = strconv.Itoa(src.ListenerCount())
		peak = strconv.Itoa(src.PeakListeners())
		bitrate = util.FormatKbps(src.BitrateKbps())
		if u, ok := src.Uptime(now); ok {
			uptime = u
		}
	}
	return [][2]string{
		{"Mount", mount},
		{"Listeners", listeners},
		{"Peak", peak},
		{"Bitrate", bitrate},
		{"Uptime", uptime},
	}
}

func renderRows(t theme, rows [][2]string) string {
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.label.Render(fmt.Sprintf("%-10s", r[0])))
		b.WriteString(t.value.Render(r[1]))
	}
	return b.String()
}
