package config

import (
	"time"

	"mp3splitter/internal/timeutil"
)

// Config holds all splitter configuration options
type Config struct {
	// Required fields
	Input string `yaml:"input" envconfig:"INPUT"`

	// Output settings
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"` // directory for chunk files
	Prefix    string `yaml:"prefix" envconfig:"PREFIX"`         // chunk filename prefix

	// Execution settings
	ChunkMinutes float64 `yaml:"chunk_minutes" envconfig:"CHUNK_MINUTES"` // target minutes per chunk
	Workers      int     `yaml:"workers" envconfig:"WORKERS"`             // 0 = auto-detect

	// Behavioral flags
	StrictMode bool `yaml:"strict_mode" envconfig:"STRICT_MODE"` // Fail on any chunk error
	Verbose    bool `yaml:"verbose" envconfig:"VERBOSE"`         // Show detailed logs
	DryRun     bool `yaml:"dry_run" envconfig:"DRY_RUN"`         // Show the plan without writing files
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		// Required - must be provided by user
		Input: "",

		// Output defaults
		OutputDir: "mp3_chunks",
		Prefix:    "audiofile_part",

		// Execution settings
		ChunkMinutes: 10, // 10 minute chunks
		Workers:      0,  // Auto-detect CPU count

		// Behavioral defaults
		StrictMode: true,  // Fail on any chunk error
		Verbose:    false, // Quiet mode
		DryRun:     false, // Actually write chunks
	}
}

// ChunkDuration returns the target chunk length as a time.Duration.
func (c *Config) ChunkDuration() time.Duration {
	return timeutil.MinutesToDuration(c.ChunkMinutes)
}

// Copy creates a copy of the config
func (c *Config) Copy() *Config {
	copy := *c
	return &copy
}
