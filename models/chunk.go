package models

import "fmt"

// ChunkPlan describes one output file to be produced by a split operation.
//
// A plan covers the half-open packet-index range [StartPacket, EndPacket)
// of the global packet collection. Plans produced for one operation are
// contiguous, non-overlapping, and together cover every packet index exactly
// once, in original order.
//
// Use NewChunkPlan to create a validated ChunkPlan instance.
//
// Note: StartTime and EndTime use float64 seconds to preserve fractional
// durations, which matters for accurate part boundaries and the final report.
type ChunkPlan struct {
	ChunkID     uint    `json:"chunk_id"` // 1-based
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	StartPacket int     `json:"start_packet"` // inclusive
	EndPacket   int     `json:"end_packet"`   // exclusive
}

// NewChunkPlan creates a new ChunkPlan with validation.
//
// Returns an error if the plan parameters are invalid:
//   - EndTime must be greater than StartTime
//   - the packet range must contain at least one packet
//
// Example:
//
//	plan, err := models.NewChunkPlan(1, 0.0, 600.2, 0, 22976)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewChunkPlan(id uint, startTime, endTime float64, startPacket, endPacket int) (*ChunkPlan, error) {
	p := &ChunkPlan{
		ChunkID:     id,
		StartTime:   startTime,
		EndTime:     endTime,
		StartPacket: startPacket,
		EndPacket:   endPacket,
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chunk plan: %w", err)
	}
	return p, nil
}

// Validate checks if the ChunkPlan has valid data.
//
// Returns an error if:
//   - ChunkID is zero (IDs are 1-based)
//   - StartPacket is negative
//   - the packet range is empty or inverted
//   - StartTime >= EndTime (invalid time range)
func (p *ChunkPlan) Validate() error {
	if p.ChunkID == 0 {
		return fmt.Errorf("chunk_id must be 1-based")
	}

	if p.StartPacket < 0 {
		return fmt.Errorf("start_packet cannot be negative")
	}

	if p.EndPacket <= p.StartPacket {
		return fmt.Errorf("chunk must contain at least one packet")
	}

	if p.StartTime >= p.EndTime {
		return fmt.Errorf("start_time must be less than end_time")
	}

	return nil
}

// PacketCount returns the number of packets covered by the plan.
func (p *ChunkPlan) PacketCount() int {
	return p.EndPacket - p.StartPacket
}

// Duration returns the chunk duration in seconds.
func (p *ChunkPlan) Duration() float64 {
	return p.EndTime - p.StartTime
}
