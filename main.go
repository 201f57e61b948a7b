package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ncafters/afters/internal/config"
	"github.com/ncafters/afters/internal/history"
	"github.com/ncafters/afters/internal/icecast"
	"github.com/ncafters/afters/internal/player"
	"github.com/ncafters/afters/internal/ui"
	"github.com/ncafters/afters/internal/visualizer"
)

const debugLogPath = "afters-debug.log"

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: user config dir)")
	debug := flag.Bool("debug", false, "write a debug log to "+debugLogPath)
	flag.Parse()

	if *debug || os.Getenv("AFTERS_DEBUG") != "" {
		f, err := tea.LogToFile(debugLogPath, "afters")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	viz, err := visualizer.NewVisualizer(cfg.VisualizerOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := player.New(viz.Tap(), cfg.Volume)
	defer p.Close()

	model := ui.New(ui.Options{
		Player:       p,
		Status:       icecast.NewClient(cfg.StatusURL, nil),
		Visualizer:   viz,
		History:      history.New(cfg.HistorySize),
		Stations:     cfg.Stations,
		PollInterval: cfg.PollInterval,
		FPS:          cfg.Visualizer.FPS,
	})
	log.Printf("afters: %d stations, status %s", len(cfg.Stations), cfg.StatusURL)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
