// Package config loads the YAML runtime configuration for an ionvm host
// process: scheduler timeslice, shard count, and debug tracing.
// Grounded 1:1 on internal/ext/config.go's LoadConfig/ParseConfig/
// setDefaults pattern, using the teacher's own gopkg.in/yaml.v3
// dependency for the unmarshal step.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuntimeConfig is the top-level ionvm.yaml configuration.
type RuntimeConfig struct {
	// Timeslice is the reduction budget granted to a process per
	// scheduler pass (spec.md §4.4). Defaults to sched.DefaultTimeslice.
	Timeslice uint32 `yaml:"timeslice,omitempty"`

	// Shards is the number of independent scheduler partitions to run,
	// each on its own goroutine (spec.md §4.4's multi-OS-thread
	// permission). Defaults to 1 (single scheduler, no partitioning).
	Shards int `yaml:"shards,omitempty"`

	// Debug enables the debug trace sink described in spec.md §6.
	Debug bool `yaml:"debug,omitempty"`

	// DebugSink selects the trace sink: "text" (default) or "proto".
	DebugSink string `yaml:"debug_sink,omitempty"`
}

const (
	defaultTimeslice = 2000
	defaultShards    = 1
	defaultSink      = "text"
)

// Load reads and parses an ionvm.yaml file.
func Load(path string) (*RuntimeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse parses ionvm.yaml content from bytes. path is used only for
// error messages.
func Parse(data []byte, path string) (*RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

func (c *RuntimeConfig) validate(path string) error {
	if c.Shards < 0 {
		return fmt.Errorf("%s: shards must be non-negative, got %d", path, c.Shards)
	}
	if c.DebugSink != "" && c.DebugSink != "text" && c.DebugSink != "proto" {
		return fmt.Errorf("%s: debug_sink must be \"text\" or \"proto\", got %q", path, c.DebugSink)
	}
	return nil
}

func (c *RuntimeConfig) setDefaults() {
	if c.Timeslice == 0 {
		c.Timeslice = defaultTimeslice
	}
	if c.Shards == 0 {
		c.Shards = defaultShards
	}
	if c.DebugSink == "" {
		c.DebugSink = defaultSink
	}
}
