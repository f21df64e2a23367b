package config

import "testing"

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(``), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeslice != defaultTimeslice {
		t.Errorf("timeslice = %d, want %d", cfg.Timeslice, defaultTimeslice)
	}
	if cfg.Shards != defaultShards {
		t.Errorf("shards = %d, want %d", cfg.Shards, defaultShards)
	}
	if cfg.DebugSink != defaultSink {
		t.Errorf("debug_sink = %q, want %q", cfg.DebugSink, defaultSink)
	}
	if cfg.Debug {
		t.Error("debug should default to false")
	}
}

func TestParseOverrides(t *testing.T) {
	yaml := `
timeslice: 50
shards: 4
debug: true
debug_sink: proto
`
	cfg, err := Parse([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeslice != 50 {
		t.Errorf("timeslice = %d, want 50", cfg.Timeslice)
	}
	if cfg.Shards != 4 {
		t.Errorf("shards = %d, want 4", cfg.Shards)
	}
	if !cfg.Debug {
		t.Error("expected debug = true")
	}
	if cfg.DebugSink != "proto" {
		t.Errorf("debug_sink = %q, want proto", cfg.DebugSink)
	}
}

func TestParseRejectsNegativeShards(t *testing.T) {
	_, err := Parse([]byte("shards: -1\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected error for negative shards")
	}
}

func TestParseRejectsUnknownDebugSink(t *testing.T) {
	_, err := Parse([]byte("debug_sink: xml\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected error for unknown debug_sink")
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("timeslice: [this is not a number\n"), "test.yaml")
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
