package splitter

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"mp3splitter/models"
)

// ChunkWriter writes planned packet ranges to sequentially numbered output
// files. Each chunk file is the byte-for-byte concatenation of its packets'
// payloads; nothing is re-encoded.
//
// Chunks are independent, so a single ChunkWriter may serve concurrent
// WriteChunk calls for different plans.
type ChunkWriter struct {
	outputDir string
	prefix    string
	log       hclog.Logger
}

// NewChunkWriter creates a writer that places chunk files under outputDir
// with the given filename prefix.
func NewChunkWriter(outputDir, prefix string, log hclog.Logger) (*ChunkWriter, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output directory cannot be empty")
	}
	if prefix == "" {
		return nil, fmt.Errorf("filename prefix cannot be empty")
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	return &ChunkWriter{
		outputDir: outputDir,
		prefix:    prefix,
		log:       log,
	}, nil
}

// Setup ensures the output directory exists. Safe to call more than once.
func (w *ChunkWriter) Setup() error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// OutputPath returns the file path for the given chunk ID, numbered from 1
// and zero-padded to keep lexical and playback order aligned.
func (w *ChunkWriter) OutputPath(chunkID uint) string {
	return filepath.Join(w.outputDir, fmt.Sprintf("%s_%03d.mp3", w.prefix, chunkID))
}

// WriteChunk writes the plan's packet range to its output file and returns
// the path and the number of bytes written.
func (w *ChunkWriter) WriteChunk(plan *models.ChunkPlan, packets []*models.Packet) (string, int64, error) {
	if plan == nil {
		return "", 0, fmt.Errorf("chunk plan cannot be nil")
	}
	if err := plan.Validate(); err != nil {
		return "", 0, fmt.Errorf("invalid chunk plan: %w", err)
	}
	if plan.EndPacket > len(packets) {
		return "", 0, fmt.Errorf("chunk %d references packets beyond stream end (%d > %d)",
			plan.ChunkID, plan.EndPacket, len(packets))
	}

	path := w.OutputPath(plan.ChunkID)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create chunk file: %w", err)
	}

	bw := bufio.NewWriterSize(f, 64*1024)
	var written int64

	for _, pkt := range packets[plan.StartPacket:plan.EndPacket] {
		n, err := bw.Write(pkt.Data)
		if err != nil {
			f.Close()
			return "", 0, fmt.Errorf("failed to write chunk %d: %w", plan.ChunkID, err)
		}
		written += int64(n)
	}

	if err := bw.Flush(); err != nil {
		f.Close()
		return "", 0, fmt.Errorf("failed to flush chunk %d: %w", plan.ChunkID, err)
	}
	if err := f.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close chunk %d: %w", plan.ChunkID, err)
	}

	w.log.Debug("wrote chunk",
		"chunk_id", plan.ChunkID,
		"path", path,
		"packets", plan.PacketCount(),
		"bytes", written,
	)

	return path, written, nil
}
