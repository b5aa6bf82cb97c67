// Package models provides core data structures for the splitter system.
package models

// TimeBase is the rational factor that converts stream ticks to seconds.
//
// It is supplied once by the source track during probing and stays constant
// for the whole split operation. For MP3 streams the tick unit is one PCM
// sample, so the time base is 1/sampleRate.
type TimeBase struct {
	Numer int64 `json:"numer"`
	Denom int64 `json:"denom"`
}

// Valid reports whether the time base can convert ticks to seconds.
func (tb TimeBase) Valid() bool {
	return tb.Numer > 0 && tb.Denom > 0
}

// Seconds converts a tick count to seconds using floating-point arithmetic.
//
// Precision loss from the float conversion is accepted: it accumulates as a
// bounded, non-fatal imprecision over many packets and is not treated as an
// error condition.
func (tb TimeBase) Seconds(ticks int64) float64 {
	return float64(ticks) * float64(tb.Numer) / float64(tb.Denom)
}

// Packet is a single compressed audio frame: an opaque payload plus its
// duration in stream time-base ticks.
//
// Packets are immutable once ingested. The packet collection owns them for
// the lifetime of one split operation; chunk boundaries are always snapped
// to packet edges because compressed frames are not byte-splittable without
// corrupting the bitstream.
type Packet struct {
	Data []byte
	Dur  int64 // duration in time-base ticks
}
