package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	// Required fields
	if c.Input == "" {
		errors = append(errors, "input file is required")
	} else {
		// Check if input file exists
		if _, err := os.Stat(c.Input); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("input file does not exist: %s", c.Input))
		}
	}

	// Validate output settings
	if c.OutputDir == "" {
		errors = append(errors, "output directory is required")
	}

	if c.Prefix == "" {
		errors = append(errors, "filename prefix is required")
	} else if strings.ContainsAny(c.Prefix, `/\`) {
		errors = append(errors, "filename prefix cannot contain path separators")
	}

	// Validate chunk length
	if c.ChunkMinutes <= 0 {
		errors = append(errors, "chunk length must be positive")
	}

	// Validate workers (0 is valid, means auto-detect)
	if c.Workers < 0 {
		errors = append(errors, "workers cannot be negative (use 0 for auto-detect)")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}
