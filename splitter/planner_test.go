package splitter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mp3splitter/models"
	"mp3splitter/timeline"
)

// buildTimeline builds a timeline from per-packet durations in seconds,
// using a 1/1000 time base so durations can be written as milliseconds.
func buildTimeline(t *testing.T, secs []float64) *timeline.Timeline {
	t.Helper()

	tb := models.TimeBase{Numer: 1, Denom: 1000}
	ticks := make([]int64, len(secs))
	for i, s := range secs {
		ticks[i] = int64(math.Round(s * 1000))
	}

	tl, err := timeline.Build(ticks, tb)
	require.NoError(t, err)
	return tl
}

func uniform(n int, sec float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = sec
	}
	return out
}

func TestPlanChunksRemainderFormsFinalChunk(t *testing.T) {
	// 95 packets of 1.0s at a 10s target: nine full chunks plus a short
	// 5-packet tail.
	tl := buildTimeline(t, uniform(95, 1.0))

	plans, err := PlanChunks(tl, 10.0)
	require.NoError(t, err)
	require.Len(t, plans, 10)

	for i, plan := range plans[:9] {
		assert.Equal(t, 10, plan.PacketCount(), "chunk %d", i+1)
		assert.InDelta(t, 10.0, plan.Duration(), 1e-9, "chunk %d", i+1)
	}
	last := plans[9]
	assert.Equal(t, 5, last.PacketCount())
	assert.InDelta(t, 5.0, last.Duration(), 1e-9)
}

func TestPlanChunksTargetExceedsTotal(t *testing.T) {
	// 30s of audio with a 10-minute target: everything in one chunk.
	tl := buildTimeline(t, uniform(30, 1.0))

	plans, err := PlanChunks(tl, 600.0)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	assert.Equal(t, uint(1), plans[0].ChunkID)
	assert.Equal(t, 30, plans[0].PacketCount())
	assert.InDelta(t, 30.0, plans[0].Duration(), 1e-9)
}

func TestPlanChunksOversizedPacket(t *testing.T) {
	// A single 30s packet at a 10s target still produces one chunk: packets
	// are never split, so the chunk overshoots instead.
	tl := buildTimeline(t, []float64{30.0})

	plans, err := PlanChunks(tl, 10.0)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	assert.Equal(t, 1, plans[0].PacketCount())
	assert.InDelta(t, 30.0, plans[0].Duration(), 1e-9)
}

func TestPlanChunksCoverage(t *testing.T) {
	// Irregular packet durations: plans must cover every packet exactly once,
	// contiguously and in order.
	secs := []float64{0.5, 2.0, 1.0, 0.026, 3.5, 1.0, 1.0, 0.7, 4.2, 0.026, 2.2}
	tl := buildTimeline(t, secs)

	plans, err := PlanChunks(tl, 3.0)
	require.NoError(t, err)
	require.NotEmpty(t, plans)

	assert.Equal(t, 0, plans[0].StartPacket)
	for i := 1; i < len(plans); i++ {
		assert.Equal(t, plans[i-1].EndPacket, plans[i].StartPacket,
			"gap between chunk %d and %d", i, i+1)
		assert.Equal(t, plans[i-1].EndTime, plans[i].StartTime)
	}
	assert.Equal(t, tl.Len(), plans[len(plans)-1].EndPacket)
	assert.Equal(t, tl.Total(), plans[len(plans)-1].EndTime)
}

func TestPlanChunksNoEmptyChunks(t *testing.T) {
	tl := buildTimeline(t, uniform(50, 0.4))

	plans, err := PlanChunks(tl, 2.0)
	require.NoError(t, err)

	for _, plan := range plans {
		assert.Greater(t, plan.PacketCount(), 0, "chunk %d is empty", plan.ChunkID)
	}
}

func TestPlanChunksMinimumDuration(t *testing.T) {
	// Every chunk except the last must reach the target duration.
	secs := []float64{1.3, 0.9, 2.1, 0.4, 1.8, 2.6, 0.2, 1.1, 3.0, 0.6, 1.5}
	tl := buildTimeline(t, secs)

	target := 3.0
	plans, err := PlanChunks(tl, target)
	require.NoError(t, err)

	for _, plan := range plans[:len(plans)-1] {
		assert.GreaterOrEqual(t, plan.Duration(), target,
			"non-final chunk %d shorter than target", plan.ChunkID)
	}
}

func TestPlanChunksSumLaw(t *testing.T) {
	secs := []float64{1.3, 0.9, 2.1, 0.4, 1.8, 2.6, 0.2, 1.1, 3.0}
	tl := buildTimeline(t, secs)

	plans, err := PlanChunks(tl, 2.5)
	require.NoError(t, err)

	sum := 0.0
	for _, plan := range plans {
		sum += plan.Duration()
	}
	assert.InDelta(t, tl.Total(), sum, 1e-9)
}

func TestPlanChunksExactBoundary(t *testing.T) {
	// A packet ending exactly on the target boundary closes the chunk; the
	// next packet starts a new one.
	tl := buildTimeline(t, uniform(20, 1.0))

	plans, err := PlanChunks(tl, 5.0)
	require.NoError(t, err)
	require.Len(t, plans, 4)

	for _, plan := range plans {
		assert.Equal(t, 5, plan.PacketCount())
	}
}

func TestPlanChunksSequentialIDs(t *testing.T) {
	tl := buildTimeline(t, uniform(37, 1.0))

	plans, err := PlanChunks(tl, 4.0)
	require.NoError(t, err)

	for i, plan := range plans {
		assert.Equal(t, uint(i+1), plan.ChunkID)
	}
}

func TestPlanChunksDeterministic(t *testing.T) {
	secs := []float64{0.7, 1.9, 2.4, 0.3, 1.2, 2.8, 0.9}
	tl := buildTimeline(t, secs)

	first, err := PlanChunks(tl, 2.0)
	require.NoError(t, err)
	second, err := PlanChunks(tl, 2.0)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, *first[i], *second[i])
	}
}

func TestPlanChunksInvalidInput(t *testing.T) {
	tl := buildTimeline(t, uniform(5, 1.0))

	t.Run("nil timeline", func(t *testing.T) {
		_, err := PlanChunks(nil, 10.0)
		assert.Error(t, err)
	})

	t.Run("zero target", func(t *testing.T) {
		_, err := PlanChunks(tl, 0)
		assert.Error(t, err)
	})

	t.Run("negative target", func(t *testing.T) {
		_, err := PlanChunks(tl, -5.0)
		assert.Error(t, err)
	})
}
