// Command afters-replay runs the bar visualizer over a local recording,
// frame by frame, without an audio device.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ncafters/afters/internal/player"
)

func main() {
	opts := defaultOptions()
	flag.IntVar(&opts.bars, "bars", opts.bars, "number of bars")
	flag.IntVar(&opts.fps, "fps", opts.fps, "frames per second")
	flag.Float64Var(&opts.volume, "volume", opts.volume, "playback volume in [0,1]")
	flag.StringVar(&opts.gainMode, "gain-mode", opts.gainMode, "gain update mode: last-bar, mean, max or per-bar")
	flag.BoolVar(&opts.resetOnStop, "reset-on-stop", opts.resetOnStop, "clear smoothing and gain when paused")
	flag.IntVar(&opts.frames, "frames", opts.frames, "stop after this many frames (0 = whole file)")
	flag.IntVar(&opts.pauseAt, "pause-at", opts.pauseAt, "pause for one second at this frame (0 = never)")
	flag.BoolVar(&opts.render, "render", opts.render, "print terminal bars instead of CSV")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: afters-replay [flags] <file.mp3|wav|flac|ogg>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	src, err := player.OpenFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	fmt.Fprintf(os.Stderr, "replaying %s\n", src.Metadata)
	if err := replay(src, out, opts); err != nil {
		out.Flush()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
