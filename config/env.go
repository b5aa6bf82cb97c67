package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces the splitter's environment variables, e.g.
// MP3SPLITTER_OUTPUT_DIR or MP3SPLITTER_WORKERS.
const envPrefix = "MP3SPLITTER"

// MergeFromEnv overlays environment variables onto the config.
// Unset variables leave the existing values untouched.
func (c *Config) MergeFromEnv() error {
	if err := envconfig.Process(envPrefix, c); err != nil {
		return fmt.Errorf("failed to read environment config: %w", err)
	}
	return nil
}
