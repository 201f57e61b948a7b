package util

import (
	"testing"
	"time"
)

func TestFormatUptime(t *testing.T) {
	cases := map[time.Duration]string{
		0:                            "0m",
		59 * time.Second:             "0m",
		42 * time.Minute:             "42m",
		2*time.Hour + 5*time.Minute:  "2h 5m",
		26*time.Hour + 1*time.Minute: "26h 1m",
		-time.Minute:                 "0m",
	}
	for in, want := range cases {
		if got := FormatUptime(in); got != want {
			t.Fatalf("FormatUptime(%v): expected %q, got %q", in, want, got)
		}
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	cases := map[time.Duration]string{
		5 * time.Second:              "5s ago",
		90 * time.Second:             "1m ago",
		59 * time.Minute:             "59m ago",
		3*time.Hour + 7*time.Minute:  "3h 7m ago",
		50 * time.Hour:               "2d ago",
		-10 * time.Second:            "0s ago",
	}
	for ago, want := range cases {
		if got := TimeAgo(now.Add(-ago), now); got != want {
			t.Fatalf("TimeAgo(%v): expected %q, got %q", ago, want, got)
		}
	}
}

func TestFormatKbps(t *testing.T) {
	if got := FormatKbps(128); got != "128 kbps" {
		t.Fatalf("expected 128 kbps, got %q", got)
	}
	if got := FormatKbps(0); got != "— kbps" {
		t.Fatalf("expected dash, got %q", got)
	}
}
