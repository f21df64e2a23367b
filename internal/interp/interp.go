package interp

import (
	"runtime"
	"strings"

	"github.com/ayushashi11/ionvm/internal/process"
	"github.com/ayushashi11/ionvm/internal/value"
)

// RunSlice drives proc's top frame until the reduction budget is
// exhausted, the process blocks, or it exits — per spec.md §4.3(a-c).
// The returned Status is proc's status when control returns to the
// scheduler.
func RunSlice(proc *process.Process, budget int, host Host) (st process.Status) {
	// An out-of-range register index (possible in a Function built in
	// memory rather than decoded) exits the process with bad_register.
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok || !strings.Contains(re.Error(), "index out of range") {
				panic(r)
			}
			exitFault(proc, "bad_register")
			st = proc.Status()
		}
	}()
	proc.SetStatus(process.RunningStatus())

	for budget > 0 {
		frame, ok := proc.TopFrame()
		if !ok {
			exitFault(proc, "empty_stack")
			return proc.Status()
		}

		if frame.IP >= len(frame.Function.Instructions) {
			// Well-formed functions always end in an explicit Return;
			// falling off the end is treated the same as Return(Undefined)
			// from the top of this frame, reusing execReturn's caller-slot
			// and exit-reason bookkeeping rather than duplicating it.
			if !execReturn(proc, value.Undefined()) {
				return proc.Status()
			}
			continue
		}

		instr := frame.Function.Instructions[frame.IP]
		frame.IP++
		budget--

		blocked := exec(proc, frame, instr, host)
		if blocked {
			return proc.Status()
		}
		if instr.Op == value.OpYield {
			budget = 0
		}
	}

	if proc.Alive && proc.Status().Kind == process.Running {
		proc.SetStatus(process.RunnableStatus())
	}
	return proc.Status()
}

// exitFault marks proc Exited with reason TaggedEnum("error", Atom(kind)),
// per spec.md §4.3/§7's process-fatal fault handling. The fixed kind
// vocabulary (arity_mismatch, not_callable, empty_stack, bad_register,
// fatal) mirrors original_source/vmm/src/vm.rs's fault atoms.
func exitFault(proc *process.Process, kind string) {
	reason := value.FromTaggedEnum("error", value.Atom(kind))
	proc.OnExit(reason)
}

// exec dispatches one instruction. It returns true if proc's status
// became non-Running (blocked or exited), signalling RunSlice to stop
// even if reduction budget remains.
func exec(proc *process.Process, frame *process.Frame, instr value.Instruction, host Host) bool {
	switch instr.Op {
	case value.OpLoadConst:
		frame.Regs[instr.Reg] = loadConstValue(proc, instr.Const, host)
		return false
	case value.OpMove:
		frame.Regs[instr.Reg] = frame.Regs[instr.Reg2]
		return false
	case value.OpAdd:
		frame.Regs[instr.Reg] = arith(frame.Regs[instr.Reg2], frame.Regs[instr.Reg3], opAdd)
		return false
	case value.OpSub:
		frame.Regs[instr.Reg] = arith(frame.Regs[instr.Reg2], frame.Regs[instr.Reg3], opSub)
		return false
	case value.OpMul:
		frame.Regs[instr.Reg] = arith(frame.Regs[instr.Reg2], frame.Regs[instr.Reg3], opMul)
		return false
	case value.OpDiv:
		frame.Regs[instr.Reg] = arith(frame.Regs[instr.Reg2], frame.Regs[instr.Reg3], opDiv)
		return false
	case value.OpGetProp:
		frame.Regs[instr.Reg] = execGetProp(frame.Regs[instr.Reg2], frame.Regs[instr.Reg3])
		return false
	case value.OpSetProp:
		execSetProp(frame.Regs[instr.Reg], frame.Regs[instr.Reg2], frame.Regs[instr.Reg3])
		return false
	case value.OpCall:
		return execCall(proc, frame, instr, host)
	case value.OpReturn:
		return !execReturn(proc, frame.Regs[instr.Reg])
	case value.OpJump:
		frame.IP += int(instr.Offset)
		return false
	case value.OpJumpIfTrue:
		if frame.Regs[instr.Reg].Truthy() {
			frame.IP += int(instr.Offset)
		}
		return false
	case value.OpJumpIfFalse:
		if !frame.Regs[instr.Reg].Truthy() {
			frame.IP += int(instr.Offset)
		}
		return false
	case value.OpSpawn:
		return execSpawn(proc, frame, instr, host)
	case value.OpSend:
		return execSend(proc, frame, instr, host)
	case value.OpReceive:
		return execReceive(proc, frame, instr, host)
	case value.OpReceiveWithTimeout:
		return execReceiveWithTimeout(proc, frame, instr, host)
	case value.OpLink:
		return execLink(proc, frame, instr, host)
	case value.OpMatch:
		execMatch(frame, instr)
		return false
	case value.OpYield:
		return false
	case value.OpNop:
		return false
	default:
		exitFault(proc, "fatal")
		return true
	}
}

// loadConstValue substitutes reserved __vm: atoms (and the legacy bare
// "self" alias) at load time, per spec.md §4.3/§3 invariant (e). Unknown
// __vm: atoms pass through as literal atoms.
func loadConstValue(proc *process.Process, v value.Value, host Host) value.Value {
	if !v.IsAtom() {
		return v
	}
	atom := v.AsAtom()
	if atom == "self" {
		return value.FromProcess(proc)
	}
	if len(atom) < len(value.ReservedAtomPrefix) || atom[:len(value.ReservedAtomPrefix)] != value.ReservedAtomPrefix {
		return v
	}
	switch atom {
	case value.ReservedAtomPrefix + "self":
		return value.FromProcess(proc)
	case value.ReservedAtomPrefix + "pid":
		return value.Number(float64(proc.Pid()))
	case value.ReservedAtomPrefix + "processes":
		return value.Number(float64(host.NumProcesses()))
	case value.ReservedAtomPrefix + "scheduler_passes":
		return value.Number(float64(host.SchedulerPasses()))
	case value.ReservedAtomPrefix + "this":
		if frame, ok := proc.TopFrame(); ok && frame.Function.BoundThis != nil {
			return *frame.Function.BoundThis
		}
		return value.Undefined()
	default:
		return v
	}
}

// execReturn pops the current frame and either writes the returned value
// into the caller's recorded return register, or — if the popped frame
// was the bottom of the stack — exits the process with that value as its
// reason. Returns false if the process is now non-Running (exited).
func execReturn(proc *process.Process, returned value.Value) bool {
	_, ok := proc.PopFrame()
	if !ok {
		exitFault(proc, "empty_stack")
		return false
	}
	caller, ok := proc.TopFrame()
	if !ok {
		proc.OnExit(returned)
		return false
	}
	if caller.HasReturnReg {
		caller.Regs[caller.ReturnReg] = returned
	}
	return true
}
