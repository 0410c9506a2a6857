// Package config loads and validates the segmentoor configuration.
package config

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"

	"github.com/ethpandaops/segmentoor/pkg/analyzer"
)

const (
	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultInput is the broker log read when no input is given.
	DefaultInput = "server.log"

	// DefaultOutput is the report artifact written when no output
	// path is given.
	DefaultOutput = "segment-report.json"
)

// Config is the root configuration for segmentoor.
type Config struct {
	Global   GlobalConfig   `yaml:"global"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Report   ReportConfig   `yaml:"report"`
}

// GlobalConfig contains global application settings.
type GlobalConfig struct {
	LogLevel string `yaml:"log_level"`
}

// AnalysisConfig contains the analysis parameters. Thresholds and
// bucket boundaries live here instead of being package constants so
// they are explicit inputs to the pipeline.
type AnalysisConfig struct {
	ModerateThresholdMS int64          `yaml:"moderate_threshold_ms"`
	SlowThresholdMS     int64          `yaml:"slow_threshold_ms"`
	BarWidth            int            `yaml:"bar_width"`
	TopEntries          int            `yaml:"top_entries"`
	PartitionFilter     string         `yaml:"partition_filter,omitempty"`
	Buckets             []BucketConfig `yaml:"buckets,omitempty"`
}

// BucketConfig defines one histogram bucket. Hi of -1 means unbounded.
type BucketConfig struct {
	Label string `yaml:"label"`
	Lo    int64  `yaml:"lo"`
	Hi    int64  `yaml:"hi"`
}

// ReportConfig contains the report output settings.
type ReportConfig struct {
	Output   string `yaml:"output"`
	Markdown string `yaml:"markdown,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

// Load reads and parses a configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for unspecified configuration options.
func (c *Config) applyDefaults() {
	if c.Global.LogLevel == "" {
		c.Global.LogLevel = DefaultLogLevel
	}

	if c.Analysis.ModerateThresholdMS == 0 {
		c.Analysis.ModerateThresholdMS = analyzer.DefaultThresholds().ModerateMS
	}

	if c.Analysis.SlowThresholdMS == 0 {
		c.Analysis.SlowThresholdMS = analyzer.DefaultThresholds().SlowMS
	}

	if c.Analysis.BarWidth == 0 {
		c.Analysis.BarWidth = analyzer.DefaultBarWidth
	}

	if c.Report.Output == "" {
		c.Report.Output = DefaultOutput
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Analysis.ModerateThresholdMS <= 0 {
		return fmt.Errorf("moderate_threshold_ms must be positive")
	}

	if c.Analysis.SlowThresholdMS <= c.Analysis.ModerateThresholdMS {
		return fmt.Errorf(
			"slow_threshold_ms (%d) must be greater than moderate_threshold_ms (%d)",
			c.Analysis.SlowThresholdMS,
			c.Analysis.ModerateThresholdMS,
		)
	}

	if c.Analysis.BarWidth <= 0 {
		return fmt.Errorf("bar_width must be positive")
	}

	if c.Analysis.TopEntries < 0 {
		return fmt.Errorf("top_entries must not be negative")
	}

	if c.Analysis.PartitionFilter != "" {
		if _, err := glob.Compile(c.Analysis.PartitionFilter); err != nil {
			return fmt.Errorf("invalid partition_filter %q: %w", c.Analysis.PartitionFilter, err)
		}
	}

	if err := validateBuckets(c.Analysis.Buckets); err != nil {
		return fmt.Errorf("invalid buckets: %w", err)
	}

	if c.Report.Output == "" {
		return fmt.Errorf("report output path must not be empty")
	}

	return nil
}

// validateBuckets checks that custom buckets form an ordered partition
// of [0, inf) with no gaps and no overlaps. An empty list is valid and
// selects the default buckets.
func validateBuckets(buckets []BucketConfig) error {
	if len(buckets) == 0 {
		return nil
	}

	if buckets[0].Lo != 0 {
		return fmt.Errorf("first bucket must start at 0, got %d", buckets[0].Lo)
	}

	for i, b := range buckets {
		if b.Label == "" {
			return fmt.Errorf("bucket %d: label is required", i)
		}

		last := i == len(buckets)-1

		if last {
			if b.Hi != analyzer.UnboundedMS {
				return fmt.Errorf("last bucket must be unbounded (hi: -1), got %d", b.Hi)
			}

			continue
		}

		if b.Hi < b.Lo {
			return fmt.Errorf("bucket %q: hi (%d) below lo (%d)", b.Label, b.Hi, b.Lo)
		}

		if buckets[i+1].Lo != b.Hi+1 {
			return fmt.Errorf(
				"bucket %q ends at %d but the next starts at %d",
				b.Label, b.Hi, buckets[i+1].Lo,
			)
		}
	}

	return nil
}

// Thresholds returns the configured severity thresholds.
func (c *Config) Thresholds() analyzer.Thresholds {
	return analyzer.Thresholds{
		ModerateMS: c.Analysis.ModerateThresholdMS,
		SlowMS:     c.Analysis.SlowThresholdMS,
	}
}

// Buckets returns the configured histogram buckets, or the defaults
// when none are configured.
func (c *Config) Buckets() []analyzer.BucketDef {
	if len(c.Analysis.Buckets) == 0 {
		return analyzer.DefaultBuckets()
	}

	defs := make([]analyzer.BucketDef, len(c.Analysis.Buckets))
	for i, b := range c.Analysis.Buckets {
		defs[i] = analyzer.BucketDef{Label: b.Label, LoMS: b.Lo, HiMS: b.Hi}
	}

	return defs
}

// AnalyzerOptions returns the analyzer options derived from the config.
func (c *Config) AnalyzerOptions() analyzer.Options {
	return analyzer.Options{
		Thresholds: c.Thresholds(),
		Buckets:    c.Buckets(),
		BarWidth:   c.Analysis.BarWidth,
	}
}
