package main

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"math"
	"strconv"
	"strings"
	"testing"
)

func tonePCM(seconds float64, freq, amp float64) []byte {
	n := int(seconds * sampleRate)
	out := make([]byte, n*frameBytes)
	for i := range n {
		v := int16(amp * 32767 * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
		binary.LittleEndian.PutUint16(out[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(out[i*4+2:], uint16(v))
	}
	return out
}

func readCSV(t *testing.T, out string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not CSV: %v", err)
	}
	return rows
}

func TestReplayWritesOneRowPerFrame(t *testing.T) {
	opts := defaultOptions()
	opts.frames = 30

	var out bytes.Buffer
	if err := replay(bytes.NewReader(tonePCM(2, 440, 0.5)), &out, opts); err != nil {
		t.Fatalf("replay returned error: %v", err)
	}

	rows := readCSV(t, out.String())
	if len(rows) != 30 {
		t.Fatalf("expected 30 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != opts.bars+1 {
			t.Fatalf("row %d: expected %d fields, got %d", i, opts.bars+1, len(row))
		}
		if row[0] != strconv.Itoa(i) {
			t.Fatalf("row %d: expected frame index first, got %q", i, row[0])
		}
		for _, f := range row[1:] {
			h, err := strconv.ParseFloat(f, 64)
			if err != nil {
				t.Fatalf("row %d: bad height %q", i, f)
			}
			if h < 4 || h > 20 {
				t.Fatalf("row %d: height %v out of [4, 20]", i, h)
			}
		}
	}
}

func TestReplaySilenceStaysAtFloor(t *testing.T) {
	opts := defaultOptions()
	var out bytes.Buffer
	if err := replay(bytes.NewReader(make([]byte, sampleRate/2*frameBytes)), &out, opts); err != nil {
		t.Fatalf("replay returned error: %v", err)
	}

	rows := readCSV(t, out.String())
	if len(rows) != 30 {
		t.Fatalf("expected half a second at 60 fps (30 rows), got %d", len(rows))
	}
	for _, row := range rows {
		for _, f := range row[1:] {
			if f != "4.000" {
				t.Fatalf("expected floor height for silence, got %q", f)
			}
		}
	}
}

func TestReplayPauseFloorsBars(t *testing.T) {
	opts := defaultOptions()
	opts.frames = 80
	opts.pauseAt = 20

	var out bytes.Buffer
	if err := replay(bytes.NewReader(tonePCM(2, 220, 0.8)), &out, opts); err != nil {
		t.Fatalf("replay returned error: %v", err)
	}

	rows := readCSV(t, out.String())
	for _, row := range rows[20:opts.pauseAt+opts.fps] {
		for _, f := range row[1:] {
			if f != "4.000" {
				t.Fatalf("frame %s: expected floored bars while paused, got %q", row[0], f)
			}
		}
	}
}

func TestReplayRejectsFrameRateAboveSampleRate(t *testing.T) {
	opts := defaultOptions()
	opts.fps = sampleRate + 1
	pcm := bytes.NewReader(make([]byte, 64))
	if err := replay(pcm, &bytes.Buffer{}, opts); err == nil || !strings.Contains(err.Error(), "fps") {
		t.Fatalf("expected fps error, got %v", err)
	}
}

func TestReplayRejectsUnknownGainMode(t *testing.T) {
	opts := defaultOptions()
	opts.gainMode = "loudest"
	if err := replay(bytes.NewReader(nil), &bytes.Buffer{}, opts); err == nil {
		t.Fatal("expected error for unknown gain mode")
	}
}

func TestReplayRenderMode(t *testing.T) {
	opts := defaultOptions()
	opts.frames = 3
	opts.render = true

	var out bytes.Buffer
	if err := replay(bytes.NewReader(tonePCM(1, 440, 0.5)), &out, opts); err != nil {
		t.Fatalf("replay returned error: %v", err)
	}
	if got := strings.Count(out.String(), "\n\n"); got != 3 {
		t.Fatalf("expected 3 rendered frames, got %d", got)
	}
}
