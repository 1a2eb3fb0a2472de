package models

import (
	"fmt"
	"time"
)

// TimeWindow is a contiguous slice of the source media timeline.
type TimeWindow struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
}

// End returns the exclusive end offset.
func (w TimeWindow) End() time.Duration {
	return w.Start + w.Duration
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("window %d: %s-%s", w.Index, FormatTimestamp(w.Start), FormatTimestamp(w.End()))
}

// Windows tiles [0, total) with windows of size chunk, in increasing order.
// The last window is clipped to the remaining duration.
func Windows(total, chunk time.Duration) []TimeWindow {
	if total <= 0 || chunk <= 0 {
		return nil
	}

	windows := make([]TimeWindow, 0, int(total/chunk)+1)
	for start := time.Duration(0); start < total; start += chunk {
		windows = append(windows, TimeWindow{
			Index:    len(windows),
			Start:    start,
			Duration: min(chunk, total-start),
		})
	}
	return windows
}

// FormatTimestamp renders an offset as H:MM:SS, hours unpadded.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
