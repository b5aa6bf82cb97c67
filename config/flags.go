package config

import (
	"flag"
	"fmt"
	"os"
)

// MergeFromFlags parses command-line flags and overrides config values
func (c *Config) MergeFromFlags() error {
	// Define flags
	fs := flag.NewFlagSet("mp3splitter", flag.ContinueOnError)
	fs.Usage = printUsage

	// Required fields
	input := fs.String("input", "", "Input MP3 file path (required)")

	// Config file override (handled by LoadConfig before this function is called)
	_ = fs.String("config", "", "Path to config file (default: search standard locations)")

	// Output settings
	outputDir := fs.String("output-dir", "", "Directory for chunk files (default: from config)")
	prefix := fs.String("prefix", "", "Chunk filename prefix (default: from config)")

	// Execution settings
	chunkMinutes := fs.Float64("chunk-minutes", -1, "Target minutes per chunk (default: from config)")
	workers := fs.Int("workers", -1, "Number of parallel workers (0 = auto-detect, default: from config)")

	// Behavioral flags
	strict := fs.Bool("strict", false, "Enable strict mode (fail on any chunk error)")
	noStrict := fs.Bool("no-strict", false, "Disable strict mode (keep whatever chunks succeeded)")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	dryRun := fs.Bool("dry-run", false, "Show the chunk plan without writing files")

	// Parse flags
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	// Override with flag values (only if explicitly set)
	if *input != "" {
		c.Input = *input
	}
	if *outputDir != "" {
		c.OutputDir = *outputDir
	}
	if *prefix != "" {
		c.Prefix = *prefix
	}

	// Execution settings (only override if explicitly set, -1 means not set)
	if *chunkMinutes > 0 {
		c.ChunkMinutes = *chunkMinutes
	}
	if *workers >= 0 {
		c.Workers = *workers
	}

	// Behavioral flags
	if *strict {
		c.StrictMode = true
	}
	if *noStrict {
		c.StrictMode = false
	}
	if *verbose {
		c.Verbose = true
	}
	if *dryRun {
		c.DryRun = true
	}

	return nil
}

// printUsage prints help text
func printUsage() {
	fmt.Fprintf(os.Stderr, `mp3splitter - Split MP3 files into equal-duration parts without re-encoding

USAGE:
  mp3splitter -input FILE [OPTIONS]

REQUIRED FLAGS:
  -input string
        Input MP3 file path (required)

CONFIGURATION:
  -config string
        Path to config file (default: search ./mp3splitter.yaml, ~/.mp3splitter/config.yaml, /etc/mp3splitter/config.yaml)

OUTPUT SETTINGS:
  -output-dir string
        Directory for chunk files (default: mp3_chunks)
  -prefix string
        Chunk filename prefix (default: audiofile_part)

EXECUTION SETTINGS:
  -chunk-minutes float
        Target minutes per chunk (default: 10)
  -workers int
        Number of parallel workers (0 = auto-detect CPU count) (default: 0)

BEHAVIORAL FLAGS:
  --strict
        Enable strict mode: fail on any chunk error (default: true)
  --no-strict
        Disable strict mode: keep whatever chunks succeeded
  --verbose
        Enable verbose logging
  --dry-run
        Show the chunk plan without writing files

EXAMPLES:
  # Basic usage: 10-minute parts into ./mp3_chunks
  mp3splitter -input audiobook.mp3

  # 15-minute parts with a custom prefix
  mp3splitter -input audiobook.mp3 -chunk-minutes 15 -prefix audiobook_part

  # Preview the chunk plan without writing anything
  mp3splitter -input audiobook.mp3 --dry-run

  # Use custom config file
  mp3splitter -config custom.yaml -input audiobook.mp3

CONFIGURATION FILES:
  Config files are searched in order:
    1. ./mp3splitter.yaml
    2. ~/.mp3splitter/config.yaml
    3. /etc/mp3splitter/config.yaml

  Environment variables use the MP3SPLITTER_ prefix, e.g. MP3SPLITTER_OUTPUT_DIR.

  Priority: CLI flags > Environment > Config file > Defaults

`)
}

// PrintConfig prints the effective configuration
func (c *Config) PrintConfig() {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                 Effective Configuration                  ")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("Input:          %s\n", c.Input)
	fmt.Printf("Output Dir:     %s\n", c.OutputDir)
	fmt.Printf("Prefix:         %s\n", c.Prefix)
	fmt.Printf("Chunk Length:   %.1f minutes\n", c.ChunkMinutes)
	fmt.Printf("Workers:        %d\n", c.Workers)

	fmt.Println("\nBehavioral Flags:")
	fmt.Printf("  Strict Mode:   %v\n", c.StrictMode)
	fmt.Printf("  Verbose:       %v\n", c.Verbose)
	fmt.Printf("  Dry Run:       %v\n", c.DryRun)
	fmt.Println("═══════════════════════════════════════════════════════════")
}
