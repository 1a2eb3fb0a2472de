package models

import (
	"testing"
	"time"
)

func TestWindowsTileTimeline(t *testing.T) {
	tests := []struct {
		total time.Duration
		chunk time.Duration
	}{
		{130 * time.Second, 60 * time.Second},
		{120 * time.Second, 60 * time.Second},
		{59 * time.Second, 60 * time.Second},
		{3601500 * time.Millisecond, 300 * time.Second},
		{1 * time.Millisecond, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.total.String()+"/"+tt.chunk.String(), func(t *testing.T) {
			windows := Windows(tt.total, tt.chunk)
			if len(windows) == 0 {
				t.Fatal("Windows() returned no windows")
			}

			var sum time.Duration
			var next time.Duration
			for i, w := range windows {
				if w.Index != i {
					t.Errorf("window %d has index %d", i, w.Index)
				}
				if w.Start != next {
					t.Errorf("window %d starts at %v, want %v", i, w.Start, next)
				}
				if w.Duration <= 0 || w.Duration > tt.chunk {
					t.Errorf("window %d duration %v out of range", i, w.Duration)
				}
				sum += w.Duration
				next = w.End()
			}
			if sum != tt.total {
				t.Errorf("sum of durations = %v, want %v", sum, tt.total)
			}

			wantLast := tt.total % tt.chunk
			if wantLast == 0 {
				wantLast = tt.chunk
			}
			if got := windows[len(windows)-1].Duration; got != wantLast {
				t.Errorf("last window = %v, want %v", got, wantLast)
			}
		})
	}
}

func TestWindows130SecondsBy60(t *testing.T) {
	windows := Windows(130*time.Second, 60*time.Second)
	want := []TimeWindow{
		{Index: 0, Start: 0, Duration: 60 * time.Second},
		{Index: 1, Start: 60 * time.Second, Duration: 60 * time.Second},
		{Index: 2, Start: 120 * time.Second, Duration: 10 * time.Second},
	}

	if len(windows) != len(want) {
		t.Fatalf("len = %d, want %d", len(windows), len(want))
	}
	for i := range want {
		if windows[i] != want[i] {
			t.Errorf("window %d = %+v, want %+v", i, windows[i], want[i])
		}
	}
}

func TestWindowsEmpty(t *testing.T) {
	if got := Windows(0, time.Minute); got != nil {
		t.Errorf("Windows(0) = %v, want nil", got)
	}
	if got := Windows(time.Minute, 0); got != nil {
		t.Errorf("Windows(chunk=0) = %v, want nil", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00:00"},
		{59*time.Second + 900*time.Millisecond, "0:00:59"},
		{60 * time.Second, "0:01:00"},
		{120 * time.Second, "0:02:00"},
		{3*time.Hour + 4*time.Minute + 5*time.Second, "3:04:05"},
		{12 * time.Hour, "12:00:00"},
		{-time.Second, "0:00:00"},
	}

	for _, tt := range tests {
		if got := FormatTimestamp(tt.in); got != tt.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
