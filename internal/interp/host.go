// Package interp implements the per-instruction semantics of spec.md §4.3:
// the interpreter that drives one process's top frame for up to one
// timeslice of reductions. Grounded on the teacher's VM.Run/executeOneOp
// dispatch loop (internal/vm/vm.go, internal/vm/vm_exec.go) for the
// switch-per-opcode shape and the decrement-a-budget idiom, generalized
// from a single global stack machine to a per-process register machine.
package interp

import (
	"github.com/ayushashi11/ionvm/internal/debugtrace"
	"github.com/ayushashi11/ionvm/internal/ffi"
	"github.com/ayushashi11/ionvm/internal/process"
	"github.com/ayushashi11/ionvm/internal/value"
)

// Host is everything the interpreter needs from the scheduler but does
// not own itself: the process table, the run queue, the timeout heap,
// and the FFI registry. Defined here (not in package sched) so that
// sched can depend on interp without interp ever depending on sched.
type Host interface {
	// Spawn creates and registers a new process running fn with args as
	// its initial registers, enqueues it at the tail of the run queue,
	// and returns it so the caller can wrap its pid in a Process value.
	Spawn(fn *value.Function, args []value.Value) *process.Process

	// LookupProcess returns the process registered under pid, if alive
	// or merely known (so Link can still observe its final exit reason
	// after it has exited).
	LookupProcess(pid uint64) (*process.Process, bool)

	// Send delivers msg to the process registered under targetPid. A
	// dead or unknown target is a silent no-op (spec.md §4.3). Waking a
	// blocked target and re-enqueueing it is the host's responsibility,
	// since only the host owns the run queue.
	Send(targetPid uint64, msg value.Value)

	// RegisterTimeout adds entry to the scheduler's timeout heap.
	RegisterTimeout(entry *process.TimeoutEntry)

	NowNano() int64
	NumProcesses() int
	SchedulerPasses() uint64
	FFI() ffi.Registry

	// Trace emits a debug trace event (spec.md §6). Implementations that
	// have no sink installed should make this a no-op.
	Trace(event debugtrace.Event)
}
