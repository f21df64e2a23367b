// Command ionvm is a thin harness that loads a runtime configuration,
// decodes a single bytecode-encoded function from disk, spawns it as
// the sole top-level process, and runs the scheduler to quiescence.
// spec.md places the real CLI surface (run/info/disassemble, an
// assembly frontend) out of scope; this exists only so the packages
// built for the core have one concrete place they are wired together
// and exercised end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ayushashi11/ionvm/internal/bytecode"
	"github.com/ayushashi11/ionvm/internal/config"
	"github.com/ayushashi11/ionvm/internal/debugtrace"
	"github.com/ayushashi11/ionvm/internal/ffi"
	"github.com/ayushashi11/ionvm/internal/sched"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "ionvm:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to ionvm.yaml (optional)")
	debug := flag.Bool("debug", false, "enable debug trace output regardless of config")
	flag.Parse()

	if flag.NArg() != 1 {
		return fmt.Errorf("usage: ionvm [-config path] [-debug] <bytecode-file>")
	}
	bcPath := flag.Arg(0)

	cfg := &config.RuntimeConfig{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		var err error
		cfg, err = config.Parse(nil, "<defaults>")
		if err != nil {
			return err
		}
	}
	if *debug {
		cfg.Debug = true
	}

	buf, err := os.ReadFile(bcPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", bcPath, err)
	}
	fn, err := bytecode.Decode(buf)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", bcPath, err)
	}

	registry := ffi.NewMapRegistry()

	var sink debugtrace.Sink = debugtrace.NopSink{}
	if cfg.Debug {
		switch cfg.DebugSink {
		case "proto":
			protoSink, err := debugtrace.NewProtoSink(os.Stderr)
			if err != nil {
				return err
			}
			sink = protoSink
		default:
			sink = debugtrace.NewTextSink(os.Stderr)
		}
	}

	if cfg.Shards <= 1 {
		s := sched.New(cfg.Timeslice, registry)
		s.SetDebugSink(sink)
		p := s.Spawn(fn, nil)
		s.Run()
		fmt.Printf("process %d exited: %s\n", p.Pid(), p.ExitReason.String())
		return nil
	}

	m := sched.NewMultiScheduler(cfg.Shards, cfg.Timeslice, registry)
	for _, shard := range m.Shards() {
		shard.SetDebugSink(sink)
	}
	shard, pid := m.SpawnMain(fn, nil)
	if err := m.Run(context.Background()); err != nil {
		return err
	}
	p, _ := shard.LookupProcess(pid)
	fmt.Printf("process %d exited: %s\n", pid, p.ExitReason.String())
	return nil
}
