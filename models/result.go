package models

import (
	"fmt"
	"strings"
)

// WriteResult represents the outcome of writing a single chunk file.
//
// This structure is used to track both successful and failed write
// operations. It enforces logical consistency: successful results must
// have an output path and no error, while failed results must have an
// error and no output path.
//
// TagWarning records a non-fatal tag-write failure for an otherwise
// successful chunk; it never marks the result as failed.
//
// Use NewWriteResultSuccess or NewWriteResultFailure to create validated instances.
type WriteResult struct {
	ChunkID    uint   `json:"chunk_id"`
	OutputPath string `json:"output_path"`
	Success    bool   `json:"success"`
	Error      error  `json:"error"`
	TagWarning string `json:"tag_warning,omitempty"`
}

// NewWriteResultSuccess creates a successful WriteResult with validation.
//
// Returns an error if outputPath is empty or whitespace-only.
//
// Example:
//
//	result, err := models.NewWriteResultSuccess(1, "mp3_chunks/audiofile_part_001.mp3")
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewWriteResultSuccess(chunkID uint, outputPath string) (*WriteResult, error) {
	wr := &WriteResult{
		ChunkID:    chunkID,
		OutputPath: outputPath,
		Success:    true,
		Error:      nil,
	}
	if err := wr.Validate(); err != nil {
		return nil, fmt.Errorf("invalid write result: %w", err)
	}
	return wr, nil
}

// NewWriteResultFailure creates a failed WriteResult with validation.
//
// The error parameter must not be nil.
//
// Example:
//
//	result, err := models.NewWriteResultFailure(1, fmt.Errorf("disk full"))
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewWriteResultFailure(chunkID uint, writeErr error) (*WriteResult, error) {
	if writeErr == nil {
		return nil, fmt.Errorf("invalid write result: error cannot be nil for failed result")
	}
	// Success=false with a non-nil Error and empty OutputPath always
	// satisfies Validate by construction.
	wr := &WriteResult{
		ChunkID:    chunkID,
		OutputPath: "",
		Success:    false,
		Error:      writeErr,
	}
	return wr, nil
}

// Validate checks if the WriteResult has consistent state.
//
// Returns an error if:
//   - Success is true but Error is not nil (inconsistent)
//   - Success is false but Error is nil (must have error reason)
//   - Success is true but OutputPath is empty (must have output)
//   - Success is false but OutputPath is set (shouldn't have output)
//
// This enforces the invariant that successful results have outputs and
// failed results have errors, making result processing more reliable.
func (wr *WriteResult) Validate() error {
	if wr.Success && wr.Error != nil {
		return fmt.Errorf("inconsistent state: Success is true but Error is not nil")
	}

	if !wr.Success && wr.Error == nil {
		return fmt.Errorf("failed result must have an error")
	}

	if wr.Success {
		if strings.TrimSpace(wr.OutputPath) == "" {
			return fmt.Errorf("output_path cannot be empty for successful result")
		}
	}

	if !wr.Success && strings.TrimSpace(wr.OutputPath) != "" {
		return fmt.Errorf("failed result should not have output_path")
	}

	return nil
}
