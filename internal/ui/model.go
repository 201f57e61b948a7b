package ui

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ncafters/afters/internal/config"
	"github.com/ncafters/afters/internal/history"
	"github.com/ncafters/afters/internal/icecast"
	"github.com/ncafters/afters/internal/player"
	"github.com/ncafters/afters/internal/visualizer"
)

const volumeStep = 0.05

// Playback is the part of player.Player the UI drives.
type Playback interface {
	Play(url string) error
	Reconnect() error
	TogglePause() error
	Paused() bool
	Volume() float64
	AdjustVolume(delta float64)
	TitleUpdates() <-chan string
	Err() error
	Close()
}

// StatusFetcher looks up the Icecast source of one mount.
type StatusFetcher interface {
	FetchMount(ctx context.Context, mount string) (*icecast.Source, error)
}

// Options carries the collaborators of the radio UI.
type Options struct {
	Player       Playback
	Status       StatusFetcher
	Visualizer   *visualizer.Visualizer
	History      *history.History
	Stations     []config.Station
	PollInterval time.Duration
	FPS          int
	Now          func() time.Time
}

// Model is the Bubbletea model for the afters radio.
type Model struct {
	player   Playback
	status   StatusFetcher
	viz      *visualizer.Visualizer
	history  *history.History
	stations []config.Station
	clock    func() time.Time

	list      list.Model
	spinner   spinner.Model
	volumeBar progress.Model
	theme     theme

	pollInterval  time.Duration
	frameInterval time.Duration

	current    int // station being played or about to be; -1 for none
	started    bool
	connecting bool
	paused     bool
	volume     float64
	rawSong    string
	nowPlaying icecast.NowPlaying
	source     *icecast.Source
	errMsg     string
	now        time.Time

	width    int
	height   int
	quitting bool
}

// New creates the radio model. The first Icecast station is selected but
// not played.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(nightTheme.accent)

	m := Model{
		player:        opts.Player,
		status:        opts.Status,
		viz:           opts.Visualizer,
		history:       opts.History,
		stations:      opts.Stations,
		clock:         opts.Now,
		list:          newStationList(opts.Stations),
		spinner:       s,
		volumeBar:     newVolumeBar(),
		theme:         nightTheme,
		pollInterval:  opts.PollInterval,
		frameInterval: time.Second / time.Duration(fps),
		current:       -1,
		volume:        opts.Player.Volume(),
		now:           opts.Now(),
	}

	for i, st := range opts.Stations {
		if st.Icecast {
			m.current = i
			m.list.Select(i)
			break
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("afters"),
		clockCmd(),
		waitForTitle(m.player.TitleUpdates()),
	}
	if m.pollInterval > 0 {
		cmds = append(cmds, pollCmd(m.pollInterval))
	}
	if mount := m.currentMount(); mount != "" {
		cmds = append(cmds, fetchStatusCmd(m.status, mount))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case playedMsg:
		if msg.station != m.current {
			return m, nil
		}
		m.connecting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.started = false
			m.paused = false
			m.viz.Stop()
			log.Printf("ui: play %s: %v", m.stations[msg.station].Name, msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.started = true
		m.paused = false
		return m, m.startFrames()

	case frameMsg:
		if _, ok := m.viz.Frame(msg.gen, m.player.Volume()); !ok {
			return m, nil
		}
		return m, frameCmd(m.frameInterval, msg.gen)

	case clockMsg:
		m.now = time.Time(msg)
		m.volume = m.player.Volume()
		if err := m.player.Err(); err != nil && m.started {
			m.errMsg = err.Error()
		}
		return m, nil

	case pollMsg:
		cmds := []tea.Cmd{pollCmd(m.pollInterval)}
		if mount := m.currentMount(); mount != "" {
			cmds = append(cmds, fetchStatusCmd(m.status, mount))
		}
		return m, tea.Batch(cmds...)

	case statusMsg:
		if msg.mount != m.currentMount() {
			return m, nil
		}
		if msg.err != nil {
			log.Printf("icecast metadata error: %v", msg.err)
			return m, nil
		}
		m.source = msg.source
		m.setSong(msg.mount, msg.source.Song())
		return m, nil

	case titleMsg:
		cmd := waitForTitle(m.player.TitleUpdates())
		if m.current >= 0 && !m.stations[m.current].Icecast {
			m.setSong(m.stationKey(), string(msg))
		}
		return m, cmd

	case spinner.TickMsg:
		if !m.connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetWidth(max(msg.Width-4, 20))
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if isQuit(msg) {
		m.quitting = true
		m.viz.Stop()
		m.player.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}

	switch msg.String() {
	case "enter":
		return m.playStation(m.list.Index())
	case " ":
		return m.togglePause()
	case "L":
		if m.current < 0 || !m.started {
			return m, nil
		}
		m.connecting = true
		m.viz.Stop()
		return m, tea.Batch(m.reconnectCmd(m.current), m.spinner.Tick)
	case "+", "=":
		m.player.AdjustVolume(volumeStep)
		m.volume = m.player.Volume()
		return m, nil
	case "-", "_":
		m.player.AdjustVolume(-volumeStep)
		m.volume = m.player.Volume()
		return m, nil
	case "t":
		if m.theme.name == nightTheme.name {
			m.theme = dayTheme
		} else {
			m.theme = nightTheme
		}
		m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.accent)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// playStation makes idx the current station, starts connecting and fetches
// its metadata right away.
func (m Model) playStation(idx int) (Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.stations) {
		return m, nil
	}
	if idx != m.current {
		m.source = nil
		m.rawSong = ""
		m.nowPlaying = icecast.NowPlaying{}
	}
	m.current = idx
	m.connecting = true
	m.errMsg = ""
	m.viz.Stop()

	cmds := []tea.Cmd{m.playCmd(idx), m.spinner.Tick}
	if mount := m.currentMount(); mount != "" {
		cmds = append(cmds, fetchStatusCmd(m.status, mount))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) togglePause() (Model, tea.Cmd) {
	if m.current < 0 || m.connecting {
		return m, nil
	}
	if !m.started {
		return m.playStation(m.current)
	}
	if err := m.player.TogglePause(); err != nil {
		if errors.Is(err, player.ErrNotPlaying) {
			return m.playStation(m.current)
		}
		m.errMsg = err.Error()
		return m, nil
	}
	m.paused = m.player.Paused()
	if m.paused {
		m.viz.Stop()
		return m, nil
	}
	return m, m.startFrames()
}

func (m Model) startFrames() tea.Cmd {
	gen, ok := m.viz.Start()
	if !ok {
		return nil
	}
	return frameCmd(m.frameInterval, gen)
}

func (m Model) playCmd(idx int) tea.Cmd {
	p, url := m.player, m.stations[idx].Stream
	return func() tea.Msg {
		return playedMsg{station: idx, err: p.Play(url)}
	}
}

func (m Model) reconnectCmd(idx int) tea.Cmd {
	p := m.player
	return func() tea.Msg {
		return playedMsg{station: idx, err: p.Reconnect()}
	}
}

func (m *Model) setSong(key, raw string) {
	m.rawSong = raw
	m.nowPlaying = icecast.ParseNowPlaying(raw)
	m.history.Push(key, raw, m.clock())
}

func (m Model) currentMount() string {
	if m.current < 0 || !m.stations[m.current].Icecast {
		return ""
	}
	return m.stations[m.current].Mount
}

// stationKey identifies the current station in the history.
func (m Model) stationKey() string {
	if m.current < 0 {
		return ""
	}
	if s := m.stations[m.current]; s.Mount != "" {
		return s.Mount
	}
	return m.stations[m.current].Stream
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.theme

	var b strings.Builder
	b.WriteString("\n")
	date, clock := formatClock(m.now)
	b.WriteString("  " + t.header.Render("afters") + "  " + t.clock.Render(date+" · "+clock) + "  " + t.muted.Render(t.icon) + "\n\n")

	b.WriteString(indent(m.list.View()) + "\n\n")

	b.WriteString("  " + m.nowPlayingView() + "\n\n")
	b.WriteString(indent(m.viz.View()) + "\n\n")

	panels := lipgloss.JoinHorizontal(lipgloss.Top,
		t.panel.Render(t.header.Render("Server")+"\n"+renderRows(t, metadataRows(m.currentMount(), m.source, m.now))),
		" ",
		t.panel.Render(t.header.Render("Recently played")+"\n"+t.artist.Render(m.history.Render(m.stationKey(), m.now))),
	)
	b.WriteString(indent(panels) + "\n\n")

	b.WriteString("  " + m.statusLine() + "\n")
	if m.errMsg != "" {
		b.WriteString("  " + t.errText.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n  " + t.help.Render(helpText()) + "\n")
	return b.String()
}

func (m Model) nowPlayingView() string {
	t := m.theme
	if m.current < 0 {
		return t.muted.Render("Pick a station")
	}
	station := m.stations[m.current]
	if m.connecting {
		return m.spinner.View() + " " + t.status.Render("Connecting to "+station.Name+"…")
	}

	raw := m.rawSong
	if raw == "" {
		raw = icecast.UnknownTrack
	}
	lines := []string{
		t.muted.Render(strings.ToUpper(station.Name)),
		t.title.Render(m.nowPlaying.DisplayTitle(raw)),
		t.artist.Render(m.nowPlaying.DisplayArtist()),
	}
	if m.nowPlaying.Track != "" {
		lines = append(lines, t.muted.Render(m.nowPlaying.Activity()))
	}
	if m.rawSong != "" {
		lines = append(lines, t.status.Render(m.rawSong))
	}
	return strings.Join(lines, "\n  ")
}

func (m Model) statusLine() string {
	t := m.theme
	icon, text := "■", "stopped"
	switch {
	case m.connecting:
		icon, text = "…", "connecting"
	case m.started && m.paused:
		icon, text = "❚❚", "paused"
	case m.started:
		icon, text = "▶", "playing"
	}
	return t.status.Render(icon+"  "+text) + "   " + m.volumeBar.ViewAs(m.volume) + " " + t.status.Render(renderVolumePercent(m.volume))
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
