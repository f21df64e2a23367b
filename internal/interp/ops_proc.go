package interp

import (
	"github.com/ayushashi11/ionvm/internal/debugtrace"
	"github.com/ayushashi11/ionvm/internal/ffi"
	"github.com/ayushashi11/ionvm/internal/process"
	"github.com/ayushashi11/ionvm/internal/value"
)

func gatherArgs(frame *process.Frame, argRegs []uint32) []value.Value {
	args := make([]value.Value, len(argRegs))
	for i, r := range argRegs {
		args[i] = frame.Regs[r]
	}
	return args
}

// execCall implements spec.md §4.3's Call. Returns true if the process
// became non-Running (a fatal fault exited it).
func execCall(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	callee := frame.Regs[instr.Reg2]
	if !callee.IsCallable() {
		exitFault(proc, "not_callable")
		return true
	}
	fn := callee.AsCallableFunction()
	if int(fn.Arity) != len(instr.Args) {
		exitFault(proc, "arity_mismatch")
		return true
	}
	args := gatherArgs(frame, instr.Args)

	if fn.FnKind == value.KindFFI {
		frame.Regs[instr.Reg] = callFFI(fn.FFIName, args, host)
		return false
	}

	proc.PushFrame(process.NewFrame(fn, args, instr.Reg, true))
	return false
}

// callFFI converts args to the FFI value domain, invokes the named
// function synchronously, and converts the result back. Non-convertible
// arguments or a registry-level error both degrade to Undefined rather
// than faulting the process (spec.md §6: "passing them to FFI yields an
// FfiTypeError and the Call returns Undefined").
func callFFI(name string, args []value.Value, host Host) value.Value {
	ffiArgs := make([]ffi.Value, len(args))
	for i, a := range args {
		fv, err := value.ToFFI(a)
		if err != nil {
			return value.Undefined()
		}
		ffiArgs[i] = fv
	}
	result, err := host.FFI().Call(name, ffiArgs)
	if err != nil {
		return value.Undefined()
	}
	return value.FromFFI(result)
}

// execSpawn implements spec.md §4.3's Spawn: allocate a pid, create a
// Runnable process, tail-enqueue it (delegated to Host, which owns the
// run queue), and write Process(handle) to dst. The spawning process
// never blocks.
func execSpawn(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	callee := frame.Regs[instr.Reg2]
	if !callee.IsCallable() {
		exitFault(proc, "not_callable")
		return true
	}
	fn := callee.AsCallableFunction()
	if int(fn.Arity) != len(instr.Args) {
		exitFault(proc, "arity_mismatch")
		return true
	}
	args := gatherArgs(frame, instr.Args)
	child := host.Spawn(fn, args)
	frame.Regs[instr.Reg] = value.FromProcess(child)
	return false
}

// execSend implements spec.md §4.3's Send. A non-Process target is a
// process-fatal fault per spec.md §7 ("Send to a non-Process value").
func execSend(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	target := frame.Regs[instr.Reg]
	if !target.IsProcess() {
		exitFault(proc, "fatal")
		return true
	}
	msg := frame.Regs[instr.Reg2]
	host.Send(target.AsProcess().Pid(), msg)
	return false
}

// execReceive implements spec.md §4.3's Receive: on an empty mailbox the
// instruction pointer is rewound so the same Receive re-executes on wake
// (spec.md §8's "Receive idempotence on empty" property).
func execReceive(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	msg, ok := proc.TakeOneMessage()
	if ok {
		frame.Regs[instr.Reg] = msg
		host.Trace(debugtrace.Event{Kind: debugtrace.KindReceive, Pid: proc.Pid()})
		return false
	}
	frame.IP--
	proc.SetStatus(process.Status{Kind: process.WaitingForMessage})
	host.Trace(debugtrace.Event{Kind: debugtrace.KindReceiveBlocked, Pid: proc.Pid()})
	return true
}

// execReceiveWithTimeout implements spec.md §4.3's ReceiveWithTimeout.
func execReceiveWithTimeout(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	msg, ok := proc.TakeOneMessage()
	if ok {
		// A message arrived, satisfying this wait; cancel whatever
		// timeout entry this same Receive registered on an earlier,
		// unsatisfied attempt so it doesn't later fire against a frame
		// that has moved on (bug: ExpireTimeout clobbering a satisfied
		// receive).
		if frame.TimeoutActive != nil {
			frame.TimeoutActive.Cancelled = true
			frame.TimeoutActive = nil
		}
		frame.Regs[instr.Reg] = msg
		frame.Regs[instr.Reg3] = value.Boolean(true)
		host.Trace(debugtrace.Event{Kind: debugtrace.KindReceive, Pid: proc.Pid()})
		return false
	}

	timeoutVal := frame.Regs[instr.Reg2]
	var timeoutMs float64
	if timeoutVal.IsNumber() {
		timeoutMs = timeoutVal.AsNumber()
	}
	expiry := host.NowNano() + int64(timeoutMs)*int64(1e6)

	frame.IP--
	entry := &process.TimeoutEntry{
		Pid:        proc.Pid(),
		FrameIndex: len(proc.Frames) - 1,
		Dst:        instr.Reg,
		ResultReg:  instr.Reg3,
		ExpiryNano: expiry,
		HeapIndex:  -1,
	}
	frame.TimeoutActive = entry
	host.RegisterTimeout(entry)
	proc.SetStatus(process.Status{Kind: process.WaitingForMessageTimeout, ExpiryNano: expiry})
	host.Trace(debugtrace.Event{Kind: debugtrace.KindTimeoutArmed, Pid: proc.Pid()})
	return true
}

// ExpireTimeout is invoked by the scheduler when draining its timeout
// heap for an entry whose expiry has elapsed. It writes Unit/false into
// the waiting frame's registers, advances that frame's ip, and marks the
// process Runnable, per spec.md §4.3's ReceiveWithTimeout expiry clause.
// It reports whether it actually fired: a no-op if the entry was already
// cancelled, if the process has since moved past WaitingForMessageTimeout
// (e.g. a Send satisfied the same receive and the process ran on), or if
// the recorded frame index no longer identifies the frame that registered
// this entry — frame indices are reused across push/pop cycles, so index
// alone cannot identify a frame once the process has resumed running.
func ExpireTimeout(proc *process.Process, entry *process.TimeoutEntry) bool {
	if entry.Cancelled {
		return false
	}
	if proc.Status().Kind != process.WaitingForMessageTimeout {
		return false
	}
	if entry.FrameIndex < 0 || entry.FrameIndex >= len(proc.Frames) {
		return false
	}
	f := proc.Frames[entry.FrameIndex]
	if f.TimeoutActive != entry {
		return false
	}
	f.Regs[entry.Dst] = value.Unit()
	f.Regs[entry.ResultReg] = value.Boolean(false)
	f.IP++
	f.TimeoutActive = nil
	proc.SetStatus(process.RunnableStatus())
	return true
}

// execLink implements spec.md §4.3's Link. A non-Process operand or an
// unknown pid is a silent no-op (not in the fatal-fault list). Link
// itself never blocks; only a subsequent Receive can suspend the caller
// (spec.md §5's "Suspension points").
func execLink(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	target := frame.Regs[instr.Reg]
	if !target.IsProcess() {
		return false
	}
	targetPid := target.AsProcess().Pid()
	targetProc, ok := host.LookupProcess(targetPid)
	if !ok {
		return false
	}

	proc.AddLink(targetPid)
	targetProc.AddLink(proc.Pid())

	if !targetProc.Alive {
		proc.EnqueueMessage(value.FromTaggedEnum("exit", targetProc.ExitReason))
	}
	host.Trace(debugtrace.Event{Kind: debugtrace.KindLink, Pid: proc.Pid()})
	return false
}
