// Package config provides configuration types and defaults for cahier.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/cahier/internal/log"
)

// Output format names accepted by Config.Format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// WatchConfig holds live-reload options for the report command.
type WatchConfig struct {
	// Debounce is how long writes must settle before a re-render.
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all configuration options for cahier.
type Config struct {
	// Format selects the default report output: "table" or "json".
	Format string `mapstructure:"format"`

	// Debug enables file logging without the --debug flag.
	Debug bool `mapstructure:"debug"`

	// LogFile is where debug logging goes (default: debug.log).
	LogFile string `mapstructure:"log_file"`

	Watch WatchConfig `mapstructure:"watch"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Format:  FormatTable,
		Debug:   false,
		LogFile: "debug.log",
		Watch: WatchConfig{
			Debounce: 1 * time.Second,
		},
	}
}

// ValidateFormat checks an output format name. Empty is valid and means the
// default.
func ValidateFormat(format string) error {
	switch format {
	case "", FormatTable, FormatJSON:
		return nil
	default:
		return fmt.Errorf("format must be %q or %q, got %q", FormatTable, FormatJSON, format)
	}
}

// Validate checks the whole configuration for errors.
func (c Config) Validate() error {
	if err := ValidateFormat(c.Format); err != nil {
		return err
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Cahier Configuration

# Default output format for reports: "table" or "json"
format: table

# Enable debug logging without passing --debug
# debug: true

# Where debug logging goes
# log_file: debug.log

# Live-reload settings for 'cahier report --watch'
watch:
  debounce: 1s   # How long writes must settle before a re-render
`
}

// WriteDefaultConfig writes the commented default template to configPath,
// creating parent directories as needed.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
