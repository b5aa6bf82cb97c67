package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"mp3splitter/config"
	"mp3splitter/demuxer"
	"mp3splitter/internal/timeutil"
	"mp3splitter/models"
	"mp3splitter/splitter"
	"mp3splitter/timeline"
)

func main() {
	// Step 1: Load configuration (CLI flags > environment > config file > defaults)
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg)

	// Step 2: Handle dry-run mode
	if cfg.DryRun {
		if err := runDryRun(cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "\n❌ Dry run error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Step 3: Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Step 4: Register signal handlers (Ctrl+C, SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\n⚠️  Interrupt received, cleaning up...")
		cancel()
	}()

	// Step 5: Run the split pipeline
	if err := runPipeline(ctx, cfg, log); err != nil {
		// Check if it was a cancellation
		if ctx.Err() == context.Canceled {
			fmt.Println("\n⚠️  Split cancelled by user")
			os.Exit(130) // Standard exit code for SIGINT
		}
		fmt.Fprintf(os.Stderr, "\n❌ Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Split completed successfully!")
}

// newLogger builds the process logger; verbose mode enables debug output.
func newLogger(cfg *config.Config) hclog.Logger {
	level := hclog.Info
	if cfg.Verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "mp3splitter",
		Level:  level,
		Output: os.Stderr,
	})
}

// runPipeline executes the complete split workflow
func runPipeline(ctx context.Context, cfg *config.Config, log hclog.Logger) error {
	startTime := time.Now()

	fmt.Println("╔════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                 MP3 SPLITTER - PIPELINE START                  ║")
	fmt.Println("╚════════════════════════════════════════════════════════════════╝")
	fmt.Printf("Input:   %s\n", cfg.Input)
	fmt.Printf("Output:  %s/%s_NNN.mp3\n", cfg.OutputDir, cfg.Prefix)
	fmt.Printf("Target:  %.1f minutes per chunk\n", cfg.ChunkMinutes)
	fmt.Println()

	// PHASE 1: Stream Analysis
	fmt.Println("📊 Phase 1: Stream Analysis")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	reader, err := demuxer.Open(cfg.Input, log)
	if err != nil {
		return fmt.Errorf("stream analysis failed: %w", err)
	}
	track := reader.Track()
	reader.Close()

	fmt.Printf("  Sample rate:    %d Hz\n", track.SampleRate)
	fmt.Printf("  Bitrate:        %d kbps\n", track.Bitrate)
	fmt.Println()

	// PHASE 2: Split
	fmt.Println("✂️  Phase 2: Splitting")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Workers:    %d\n", cfg.Workers)

	splitStart := time.Now()
	result, err := splitter.Split(ctx, splitter.Options{
		InputPath:     cfg.Input,
		ChunkDuration: cfg.ChunkDuration(),
		OutputDir:     cfg.OutputDir,
		Prefix:        cfg.Prefix,
		Workers:       cfg.Workers,
		StrictMode:    cfg.StrictMode,
		Logger:        log,
		Progress: func(completed, total int, res *models.WriteResult) {
			elapsed := time.Since(splitStart).Seconds()
			rate := float64(completed) / elapsed
			fmt.Printf("\r  chunk=%d/%d rate=%.1f/s", completed, total, rate)
			os.Stdout.Sync() // Flush output immediately
		},
	})
	if err != nil {
		return err
	}
	fmt.Printf("\r  ✓ Wrote %d chunks in %.2fs          \n",
		result.ChunkCount, time.Since(splitStart).Seconds())
	fmt.Println()

	for _, warn := range result.TagWarnings {
		fmt.Printf("  ⚠️  Tag warning: %s\n", warn)
	}

	// PHASE 3: Final Report
	elapsed := time.Since(startTime)

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                     ✅ SUCCESS!")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Output dir:  %s\n", cfg.OutputDir)
	fmt.Printf("  Chunks:      %d\n", result.ChunkCount)
	fmt.Printf("  Duration:    %s\n", timeutil.FormatSeconds(result.TotalDuration))
	fmt.Printf("  Size:        %.2f MB\n", float64(result.TotalBytes)/(1024*1024))
	fmt.Printf("  Total time:  %.2fs\n", elapsed.Seconds())
	fmt.Printf("  Speed:       %.0fx realtime\n", result.TotalDuration/elapsed.Seconds())
	fmt.Println("═══════════════════════════════════════════════════════════")

	return nil
}

// runDryRun prints the effective configuration and the chunk plan without
// writing any files.
func runDryRun(cfg *config.Config, log hclog.Logger) error {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                      DRY RUN MODE")
	fmt.Println("═══════════════════════════════════════════════════════════")
	cfg.PrintConfig()

	reader, err := demuxer.Open(cfg.Input, log)
	if err != nil {
		return err
	}
	defer reader.Close()

	packets, err := reader.ReadAll()
	if err != nil {
		return err
	}

	tl, err := timeline.FromPackets(packets, reader.Track().TimeBase)
	if err != nil {
		return err
	}

	plans, err := splitter.PlanChunks(tl, cfg.ChunkDuration().Seconds())
	if err != nil {
		return err
	}

	fmt.Printf("\nPlanned chunks (%d total, %s of audio):\n",
		len(plans), timeutil.FormatSeconds(tl.Total()))
	for _, plan := range plans {
		fmt.Printf("  %s_%03d.mp3  %s - %s  (%d packets)\n",
			cfg.Prefix, plan.ChunkID,
			timeutil.FormatSeconds(plan.StartTime),
			timeutil.FormatSeconds(plan.EndTime),
			plan.PacketCount())
	}

	fmt.Println("\n✓ Configuration is valid. No files were written.")
	return nil
}
