// Package splitter turns an ingested MP3 stream into a set of near-equal
// duration chunk files: it plans packet ranges against the stream timeline,
// writes each range losslessly to its own file, and applies per-chunk tags.
package splitter

import (
	"fmt"

	"mp3splitter/models"
	"mp3splitter/timeline"
)

// PlanChunks partitions the stream into contiguous packet ranges of roughly
// targetSeconds each, using a single greedy forward scan over the timeline.
//
// Every chunk receives at least one packet, so a packet longer than the
// target yields a chunk longer than the target rather than an empty one.
// A chunk keeps extending while its last packet still ends before the
// chunk's target end; packets are never split, so every chunk except the
// last ends at or past its target. The last chunk takes whatever remains.
//
// The returned plans cover packets [0, timeline.Len()) exactly once, in
// order, with chunk IDs numbered from 1.
//
// Example:
//
//	plans, err := splitter.PlanChunks(tl, 600.0)
//	if err != nil {
//	    log.Fatal(err)
//	}
func PlanChunks(tl *timeline.Timeline, targetSeconds float64) ([]*models.ChunkPlan, error) {
	if tl == nil {
		return nil, fmt.Errorf("timeline cannot be nil")
	}
	if targetSeconds <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %.3f", targetSeconds)
	}
	if tl.Len() == 0 {
		return nil, timeline.ErrEmptyStream
	}

	var plans []*models.ChunkPlan

	chunkStart := 0.0
	startPacket := 0
	chunkID := uint(1)

	for startPacket < tl.Len() {
		targetEnd := chunkStart + targetSeconds

		// Force at least one packet, then extend while the last included
		// packet still ends before the target.
		endPacket := startPacket + 1
		for endPacket < tl.Len() && tl.End(endPacket-1) < targetEnd {
			endPacket++
		}

		chunkEnd := tl.End(endPacket - 1)

		plan, err := models.NewChunkPlan(chunkID, chunkStart, chunkEnd, startPacket, endPacket)
		if err != nil {
			return nil, fmt.Errorf("failed to plan chunk %d: %w", chunkID, err)
		}
		plans = append(plans, plan)

		chunkStart = chunkEnd
		startPacket = endPacket
		chunkID++
	}

	return plans, nil
}
