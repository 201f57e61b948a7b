package history

import (
	"strings"
	"testing"
	"time"
)

var base = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func TestPushIgnoresEmptyValues(t *testing.T) {
	h := New(DefaultSize)
	if h.Push("", "Song", base) {
		t.Fatal("expected push without mount to be ignored")
	}
	if h.Push("/tops", "   ", base) {
		t.Fatal("expected blank title to be ignored")
	}
	if got := h.Entries("/tops"); len(got) != 0 {
		t.Fatalf("expected no entries, got %v", got)
	}
}

func TestPushSkipsRepeatOfNewest(t *testing.T) {
	h := New(DefaultSize)
	h.Push("/tops", "Artist - Song", base)
	if h.Push("/tops", " Artist - Song ", base.Add(time.Minute)) {
		t.Fatal("expected duplicate of newest title to be ignored")
	}
	h.Push("/tops", "Other - Tune", base.Add(2*time.Minute))
	if !h.Push("/tops", "Artist - Song", base.Add(3*time.Minute)) {
		t.Fatal("expected older title to be pushed again once it is not newest")
	}
	if got := len(h.Entries("/tops")); got != 3 {
		t.Fatalf("expected 3 entries, got %d", got)
	}
}

func TestPushCapsAndOrdersNewestFirst(t *testing.T) {
	h := New(DefaultSize)
	for i := range 7 {
		h.Push("/tops", string(rune('A'+i)), base.Add(time.Duration(i)*time.Minute))
	}
	got := h.Entries("/tops")
	if len(got) != DefaultSize {
		t.Fatalf("expected %d entries, got %d", DefaultSize, len(got))
	}
	want := []string{"G", "F", "E", "D", "C"}
	for i, e := range got {
		if e.Title != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], e.Title)
		}
	}
}

func TestHistoriesArePerMount(t *testing.T) {
	h := New(DefaultSize)
	h.Push("/tops", "Song", base)
	if !h.Push("/chill", "Song", base) {
		t.Fatal("expected same title on another mount to be recorded")
	}
	if latest, ok := h.Latest("/chill"); !ok || latest.Title != "Song" {
		t.Fatalf("expected latest entry on /chill, got %+v, %v", latest, ok)
	}
}

func TestRender(t *testing.T) {
	h := New(DefaultSize)
	if got := h.Render("/tops", base); got != EmptyText {
		t.Fatalf("expected empty text, got %q", got)
	}

	h.Push("/tops", "First", base)
	h.Push("/tops", "Second", base.Add(90*time.Second))
	got := h.Render("/tops", base.Add(2*time.Minute))
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", got)
	}
	if lines[0] != "1. Second (30s ago)" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if lines[1] != "2. First (2m ago)" {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}
