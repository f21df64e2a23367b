package sched

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ayushashi11/ionvm/internal/ffi"
	"github.com/ayushashi11/ionvm/internal/value"
)

// MultiScheduler partitions processes across N independent Schedulers,
// each driven on its own OS-managed goroutine, per spec.md §4.4's
// explicit permission to "run on multiple OS threads, each owning a
// disjoint partition of the process table." A process spawned into one
// shard is owned by that shard for its whole lifetime; there is no pid
// migration between shards.
type MultiScheduler struct {
	shards []*Scheduler
	next   uint64 // round-robin shard cursor for top-level spawns
}

// NewMultiScheduler builds n shards, each with the given timeslice and
// FFI registry. The registry is shared read-only state; nothing in it
// is mutated once schedulers start running.
func NewMultiScheduler(n int, timeslice uint32, ffiReg ffi.Registry) *MultiScheduler {
	if n < 1 {
		n = 1
	}
	shards := make([]*Scheduler, n)
	for i := range shards {
		shards[i] = New(timeslice, ffiReg)
	}
	return &MultiScheduler{shards: shards}
}

// Shards exposes the underlying per-partition schedulers, e.g. for
// Register/Whereis lookups scoped to a particular shard.
func (m *MultiScheduler) Shards() []*Scheduler { return m.shards }

// SpawnMain places a new top-level process on the next shard in
// round-robin order and returns that shard alongside the spawned
// process's pid, since callers need the owning shard to look it up.
func (m *MultiScheduler) SpawnMain(fn *value.Function, args []value.Value) (*Scheduler, uint64) {
	idx := atomic.AddUint64(&m.next, 1) % uint64(len(m.shards))
	shard := m.shards[idx]
	p := shard.Spawn(fn, args)
	return shard, p.Pid()
}

// Run drives every shard's loop to quiescence concurrently, returning
// once all shards have no more runnable or blocked-with-pending-wake
// work. The teacher carries golang.org/x/sync only as an indirect
// dependency (pulled in transitively); this promotes it to a direct one
// for the canonical errgroup fan-out-with-cancellation idiom, rather
// than hand-rolling a WaitGroup plus a separate error channel.
func (m *MultiScheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, shard := range m.shards {
		shard := shard
		g.Go(func() error {
			done := make(chan struct{})
			go func() {
				shard.Run()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}
