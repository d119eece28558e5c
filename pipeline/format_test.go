package pipeline

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	if got := formatTime(nil); got != "" {
		t.Errorf("formatTime(nil) = %q, want empty", got)
	}

	ts := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	if got, want := formatTime(&ts), "2024-06-01 14:30:00 UTC"; got != want {
		t.Errorf("formatTime = %q, want %q", got, want)
	}
}

func TestJoinValues(t *testing.T) {
	if got := joinValues(nil); got != "" {
		t.Errorf("joinValues(nil) = %q, want empty", got)
	}
	if got, want := joinValues([]string{"CN=A", "CN=B"}), "CN=A; CN=B"; got != want {
		t.Errorf("joinValues = %q, want %q", got, want)
	}
}
