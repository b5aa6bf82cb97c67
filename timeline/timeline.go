// Package timeline converts per-packet durations into an absolute
// cumulative-time sequence used by the chunk planner.
package timeline

import (
	"errors"

	"mp3splitter/models"
)

var (
	// ErrEmptyStream is returned when zero packets were ingested.
	ErrEmptyStream = errors.New("no audio packets in stream")

	// ErrNoTimeBase is returned when the source track provides no usable
	// time base for converting ticks to seconds.
	ErrNoTimeBase = errors.New("stream provides no time base")
)

// Timeline is an ordered sequence of cumulative elapsed-time values, one per
// packet: entry i is the sum of durations of packets 0..i converted to
// seconds via the stream time base.
//
// The sequence is monotonically non-decreasing (strictly increasing unless a
// packet has zero duration). A Timeline is immutable once built, so it may be
// read concurrently without locking.
type Timeline struct {
	ends  []float64
	total float64
}

// Build produces a Timeline from an ordered sequence of packet durations in
// time-base ticks. It is a pure transform with no side effects.
//
// Returns ErrNoTimeBase if tb cannot convert ticks to seconds, and
// ErrEmptyStream if durations is empty.
func Build(durations []int64, tb models.TimeBase) (*Timeline, error) {
	if !tb.Valid() {
		return nil, ErrNoTimeBase
	}
	if len(durations) == 0 {
		return nil, ErrEmptyStream
	}

	ends := make([]float64, len(durations))
	total := 0.0
	for i, dur := range durations {
		total += tb.Seconds(dur)
		ends[i] = total
	}

	return &Timeline{ends: ends, total: total}, nil
}

// FromPackets builds a Timeline directly from an ingested packet collection.
func FromPackets(packets []*models.Packet, tb models.TimeBase) (*Timeline, error) {
	durations := make([]int64, len(packets))
	for i, pkt := range packets {
		durations[i] = pkt.Dur
	}
	return Build(durations, tb)
}

// Len returns the number of packets covered by the timeline.
func (t *Timeline) Len() int {
	return len(t.ends)
}

// End returns the cumulative end-time of packet i in seconds.
func (t *Timeline) End(i int) float64 {
	return t.ends[i]
}

// Total returns the total stream duration in seconds.
func (t *Timeline) Total() float64 {
	return t.total
}
