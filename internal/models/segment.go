package models

import (
	"strings"
	"time"
)

// Segment is the recognized text of one TimeWindow. Immutable once produced.
type Segment struct {
	Start time.Duration `json:"start"`
	Text  string        `json:"text"`
}

// Label returns the segment with its timestamp prefix.
func (s Segment) Label() string {
	return "[" + FormatTimestamp(s.Start) + "] " + strings.TrimSpace(s.Text)
}

// Transcript is the ordered sequence of segments of one job.
type Transcript []Segment

// String concatenates the labeled segments in order, one per line.
func (t Transcript) String() string {
	lines := make([]string, 0, len(t))
	for _, seg := range t {
		lines = append(lines, seg.Label())
	}
	return strings.Join(lines, "\n")
}

// Empty reports whether no segment carries text.
func (t Transcript) Empty() bool {
	for _, seg := range t {
		if strings.TrimSpace(seg.Text) != "" {
			return false
		}
	}
	return true
}
