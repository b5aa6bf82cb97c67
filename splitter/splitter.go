package splitter

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"mp3splitter/demuxer"
	"mp3splitter/models"
	"mp3splitter/orchestrator"
	"mp3splitter/tagger"
	"mp3splitter/timeline"
)

// Options configures a split operation.
type Options struct {
	InputPath     string
	ChunkDuration time.Duration
	OutputDir     string
	Prefix        string

	// Workers caps concurrent chunk writes. Zero means one per CPU.
	Workers int

	// StrictMode fails the whole operation if any chunk fails to write.
	// Otherwise failed chunks are reported as warnings and skipped.
	StrictMode bool

	Logger hclog.Logger

	// Progress, if set, is called after each chunk write completes.
	Progress func(completed, total int, result *models.WriteResult)
}

// Result summarizes a completed split operation.
type Result struct {
	ChunkCount    int
	TotalDuration float64 // seconds of source audio
	TotalBytes    int64   // audio bytes written across all chunks
	OutputFiles   []string
	TagWarnings   []string
}

// Split runs the full pipeline: ingest the source, build the timeline, plan
// chunks, write them in parallel, and tag each output file.
//
// Tag failures never fail the operation; they are collected as warnings.
// Write failures fail the operation in strict mode, otherwise the affected
// chunks are dropped from the result with a warning.
func Split(ctx context.Context, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	// Phase 1: ingest
	reader, err := demuxer.Open(opts.InputPath, log)
	if err != nil {
		return nil, err
	}

	packets, err := reader.ReadAll()
	if err != nil {
		reader.Close()
		return nil, err
	}
	track := reader.Track()
	reader.Close()

	sourceTag := readSourceTag(opts.InputPath, log)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: timeline + plan
	tl, err := timeline.FromPackets(packets, track.TimeBase)
	if err != nil {
		return nil, err
	}

	plans, err := PlanChunks(tl, opts.ChunkDuration.Seconds())
	if err != nil {
		return nil, err
	}

	log.Info("planned chunks",
		"count", len(plans),
		"total_duration_sec", tl.Total(),
		"target_sec", opts.ChunkDuration.Seconds(),
	)

	writer, err := NewChunkWriter(opts.OutputDir, opts.Prefix, log)
	if err != nil {
		return nil, err
	}
	if err := writer.Setup(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: parallel write + tag
	writeTasks, tagWarnings, err := runTasks(plans, packets, writer, sourceTag, opts, log)
	if err != nil {
		return nil, err
	}

	// Phase 4: collect
	return collectResults(writeTasks, tl.Total(), tagWarnings, opts.StrictMode, log)
}

// readSourceTag reads the source ID3 tag set. Failures are non-fatal: the
// split proceeds untagged.
func readSourceTag(path string, log hclog.Logger) *tagger.SourceTag {
	tag, err := tagger.ReadSource(path)
	if err != nil {
		log.Warn("could not read source tags, chunks will be untagged", "error", err)
		return nil
	}
	if tag == nil {
		log.Debug("source carries no ID3 tag")
	}
	return tag
}

// writeTask writes one planned chunk. It records its own outcome so results
// can be collected per chunk after the pool finishes.
type writeTask struct {
	plan    *models.ChunkPlan
	packets []*models.Packet
	writer  *ChunkWriter

	path  string
	bytes int64
	err   error
}

func (t *writeTask) Run() error {
	path, n, err := t.writer.WriteChunk(t.plan, t.packets)
	if err != nil {
		t.err = err
		return err
	}
	t.path = path
	t.bytes = n
	return nil
}

func (t *writeTask) OutputPath() string {
	return t.writer.OutputPath(t.plan.ChunkID)
}

// tagTask applies the derived tag to a written chunk file. Tag failures are
// recorded as warnings and never fail the task, so dependent accounting
// treats the chunk as successfully produced.
type tagTask struct {
	tag  *tagger.ChunkTag
	path string
	log  hclog.Logger

	warnMu   *sync.Mutex
	warnings *[]string
	chunkID  uint
}

func (t *tagTask) Run() error {
	if err := t.tag.WriteTo(t.path); err != nil {
		t.log.Warn("failed to tag chunk", "chunk_id", t.chunkID, "error", err)
		t.warnMu.Lock()
		*t.warnings = append(*t.warnings, fmt.Sprintf("chunk %d: %v", t.chunkID, err))
		t.warnMu.Unlock()
	}
	return nil
}

func (t *tagTask) OutputPath() string {
	return t.path
}

// runTasks builds the task graph (one write task per plan, plus a dependent
// tag task when the source carries tags) and executes it.
func runTasks(
	plans []*models.ChunkPlan,
	packets []*models.Packet,
	writer *ChunkWriter,
	sourceTag *tagger.SourceTag,
	opts Options,
	log hclog.Logger,
) ([]*writeTask, []string, error) {
	pool := orchestrator.NewPool([]orchestrator.ResourceConstraint{
		{Type: orchestrator.ResourceIO, MaxSlots: opts.Workers},
		{Type: orchestrator.ResourceTag, MaxSlots: opts.Workers},
	})

	var warnMu sync.Mutex
	var tagWarnings []string

	writeTasks := make([]*writeTask, len(plans))
	total := len(plans)

	for i, plan := range plans {
		wt := &writeTask{plan: plan, packets: packets, writer: writer}
		writeTasks[i] = wt

		writeID := fmt.Sprintf("write-%03d", plan.ChunkID)
		if err := pool.AddTask(&orchestrator.Task{
			ID:       writeID,
			ChunkID:  plan.ChunkID,
			Runner:   wt,
			Resource: orchestrator.ResourceIO,
		}); err != nil {
			return nil, nil, err
		}

		if sourceTag == nil {
			continue
		}

		tt := &tagTask{
			tag:      sourceTag.Derive(int(plan.ChunkID), total),
			path:     writer.OutputPath(plan.ChunkID),
			log:      log,
			warnMu:   &warnMu,
			warnings: &tagWarnings,
			chunkID:  plan.ChunkID,
		}
		if err := pool.AddTask(&orchestrator.Task{
			ID:           fmt.Sprintf("tag-%03d", plan.ChunkID),
			ChunkID:      plan.ChunkID,
			Runner:       tt,
			Dependencies: []string{writeID},
			Resource:     orchestrator.ResourceTag,
		}); err != nil {
			return nil, nil, err
		}
	}

	if opts.Progress != nil {
		completedWrites := 0
		pool.SetProgressCallback(func(_, _ int, task *orchestrator.Task) {
			if task.Resource != orchestrator.ResourceIO {
				return
			}
			completedWrites++
			opts.Progress(completedWrites, total, task.Result)
		})
	}

	if _, err := pool.Execute(); err != nil {
		return nil, nil, err
	}

	return writeTasks, tagWarnings, nil
}

// collectResults validates the per-chunk outcomes and assembles the final
// Result. Gap detection keeps the output sequence honest: a missing chunk ID
// means a listener would lose that stretch of audio.
func collectResults(
	writeTasks []*writeTask,
	totalDuration float64,
	tagWarnings []string,
	strictMode bool,
	log hclog.Logger,
) (*Result, error) {
	var successful []*writeTask
	var failedCount int

	for _, wt := range writeTasks {
		if wt.err != nil {
			failedCount++
			continue
		}
		// Verify the file actually landed on disk.
		if _, err := os.Stat(wt.path); err != nil {
			wt.err = fmt.Errorf("chunk file missing after write: %w", err)
			failedCount++
			continue
		}
		successful = append(successful, wt)
	}

	if failedCount > 0 {
		if strictMode {
			return nil, fmt.Errorf("strict mode: %d of %d chunks failed to write", failedCount, len(writeTasks))
		}
		log.Warn("some chunks failed, proceeding with the rest",
			"failed", failedCount, "successful", len(successful))
	}

	if len(successful) == 0 {
		return nil, fmt.Errorf("no chunks were written")
	}

	sort.Slice(successful, func(i, j int) bool {
		return successful[i].plan.ChunkID < successful[j].plan.ChunkID
	})

	if err := checkForGaps(successful); err != nil {
		if strictMode {
			return nil, fmt.Errorf("strict mode: %w", err)
		}
		log.Warn("chunk sequence has gaps", "error", err)
	}

	result := &Result{
		ChunkCount:    len(successful),
		TotalDuration: totalDuration,
		TagWarnings:   tagWarnings,
	}
	for _, wt := range successful {
		result.OutputFiles = append(result.OutputFiles, wt.path)
		result.TotalBytes += wt.bytes
	}

	return result, nil
}

// checkForGaps detects missing chunk IDs in the successful sequence.
func checkForGaps(successful []*writeTask) error {
	var gaps []uint
	for i := 0; i < len(successful)-1; i++ {
		currentID := successful[i].plan.ChunkID
		nextID := successful[i+1].plan.ChunkID

		for id := currentID + 1; id < nextID; id++ {
			gaps = append(gaps, id)
		}
	}

	if len(gaps) > 0 {
		return fmt.Errorf("missing chunks: %v", gaps)
	}
	return nil
}
