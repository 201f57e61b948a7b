package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ncafters/afters/internal/visualizer"
)

const (
	sampleRate = 44100
	frameBytes = 4 // s16le stereo
)

type options struct {
	bars        int
	fps         int
	volume      float64
	gainMode    string
	resetOnStop bool
	frames      int
	pauseAt     int
	render      bool
}

func defaultOptions() options {
	def := visualizer.DefaultOptions()
	return options{
		bars:     def.Pipeline.Bars,
		fps:      def.FPS,
		volume:   0.8,
		gainMode: def.Pipeline.GainMode.String(),
	}
}

// replay feeds 44.1 kHz stereo PCM from src through the visualizer one
// frame at a time and writes the bar heights of every frame to w.
func replay(src io.Reader, w io.Writer, opts options) error {
	if opts.fps <= 0 || opts.fps > sampleRate {
		return fmt.Errorf("fps must be between 1 and %d, got %d", sampleRate, opts.fps)
	}
	mode, err := visualizer.ParseGainMode(opts.gainMode)
	if err != nil {
		return err
	}

	vopts := visualizer.DefaultOptions()
	vopts.Pipeline.Bars = opts.bars
	vopts.Pipeline.GainMode = mode
	vopts.Pipeline.ResetOnStop = opts.resetOnStop
	vopts.FPS = opts.fps
	viz, err := visualizer.NewVisualizer(vopts)
	if err != nil {
		return err
	}

	gen, _ := viz.Start()
	pauseLeft := 0
	chunk := make([]byte, sampleRate/opts.fps*frameBytes)
	cw := csv.NewWriter(w)
	record := make([]string, opts.bars+1)

	for frame := 0; opts.frames <= 0 || frame < opts.frames; frame++ {
		n, readErr := io.ReadFull(src, chunk)
		if n == 0 {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return fmt.Errorf("reading audio: %w", readErr)
		}

		if opts.pauseAt > 0 && frame == opts.pauseAt {
			viz.Stop()
			pauseLeft = opts.fps
		}

		heights := viz.Heights()
		if pauseLeft > 0 {
			pauseLeft--
			if pauseLeft == 0 {
				gen, _ = viz.Start()
			}
		} else {
			viz.Tap().Write(chunk[:n])
			heights, _ = viz.Frame(gen, opts.volume)
		}

		if opts.render {
			if _, err := fmt.Fprintf(w, "%s\n\n", viz.View()); err != nil {
				return err
			}
		} else {
			record[0] = strconv.Itoa(frame)
			for i, h := range heights {
				record[i+1] = strconv.FormatFloat(h, 'f', 3, 64)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}

		if readErr != nil && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			return fmt.Errorf("reading audio: %w", readErr)
		}
		if readErr != nil {
			break
		}
	}

	cw.Flush()
	return cw.Error()
}
