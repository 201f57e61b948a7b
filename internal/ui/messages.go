package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ncafters/afters/internal/icecast"
)

type clockMsg time.Time
type pollMsg struct{}

// frameMsg drives one visualizer frame of the chain tagged gen.
type frameMsg struct{ gen uint64 }

type playedMsg struct {
	station int
	err     error
}

type statusMsg struct {
	mount  string
	source *icecast.Source
	err    error
}

type titleMsg string

const statusTimeout = 6 * time.Second

func clockCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

func pollCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func frameCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

func fetchStatusCmd(f StatusFetcher, mount string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
		defer cancel()
		src, err := f.FetchMount(ctx, mount)
		return statusMsg{mount: mount, source: src, err: err}
	}
}

func waitForTitle(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		title, ok := <-ch
		if !ok {
			return nil
		}
		return titleMsg(title)
	}
}
