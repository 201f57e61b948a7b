package player

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeTestWAV(t *testing.T, path string, sampleRate int, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close wav file: %v", err)
	}
}

func TestOpenFileDecodesAndNormalizesWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late night.wav")
	writeTestWAV(t, path, 22050, []int{0, 1000, 2000, 3000})

	src, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile returned error: %v", err)
	}
	defer src.Close()

	out, err := io.ReadAll(src)
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}

	got := samples16(out)
	want := []int16{0, 0, 500, 500, 1000, 1000, 1500, 1500, 2000, 2000, 2500, 2500, 3000, 3000, 3000, 3000}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d (%v)", i, want[i], got[i], got)
		}
	}
	if src.Metadata.Title != "late night" {
		t.Fatalf("expected title from file name, got %q", src.Metadata.Title)
	}
}

func TestOpenFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := OpenFile(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestMetadataString(t *testing.T) {
	if got := (Metadata{Title: "Song", Artist: "Band"}).String(); got != "Band - Song" {
		t.Fatalf("expected artist and title, got %q", got)
	}
	if got := (Metadata{Title: "Song"}).String(); got != "Song" {
		t.Fatalf("expected bare title, got %q", got)
	}
}

func TestTo16(t *testing.T) {
	cases := []struct {
		sample, bits int
		want         int16
	}{
		{sample: 0x7FFFFF, bits: 24, want: 0x7FFF},
		{sample: -0x800000, bits: 24, want: -0x8000},
		{sample: 100, bits: 8, want: 100 << 8},
		{sample: 1234, bits: 16, want: 1234},
	}
	for _, tc := range cases {
		if got := to16(tc.sample, tc.bits); got != tc.want {
			t.Fatalf("to16(%d, %d) = %d, want %d", tc.sample, tc.bits, got, tc.want)
		}
	}
}
