package process

import (
	"sync"

	"github.com/ayushashi11/ionvm/internal/value"
)

// Frame is one call activation: a register file plus bookkeeping to
// resume the caller on Return. Grounded on the teacher's CallFrame
// (internal/vm/vm.go), generalized from one VM-wide frame stack to a
// stack owned per-process, since every process is its own actor here.
type Frame struct {
	Function    *value.Function
	Regs        []value.Value
	IP          int
	ReturnReg   uint32
	HasReturnReg bool
	// TimeoutActive is non-nil while a ReceiveWithTimeout issued from this
	// frame is pending; popping the frame cancels it (spec.md §4.3).
	TimeoutActive *TimeoutEntry
}

// NewFrame allocates a frame for fn with args copied into r0..
func NewFrame(fn *value.Function, args []value.Value, returnReg uint32, hasReturnReg bool) *Frame {
	regs := make([]value.Value, fn.TotalRegisters())
	for i := range regs {
		regs[i] = value.Undefined()
	}
	copy(regs, args)
	return &Frame{Function: fn, Regs: regs, IP: 0, ReturnReg: returnReg, HasReturnReg: hasReturnReg}
}

// Process is one actor: its own frame stack, mailbox, link set and status.
// Exactly one scheduler shard owns a Process at a time (spec.md §4.4); all
// mutation from that shard's goroutine is unsynchronized, but Mailbox
// enqueue is called from other shards (on Send) and so is separately
// locked.
type Process struct {
	pid    uint64
	Frames []*Frame
	status Status
	Alive  bool

	mailboxMu sync.Mutex
	mailbox   []value.Value

	linksMu sync.Mutex
	links   map[uint64]struct{}

	ExitReason value.Value
}

func New(pid uint64, fn *value.Function, args []value.Value) *Process {
	p := &Process{
		pid:    pid,
		Frames: []*Frame{NewFrame(fn, args, 0, false)},
		status: RunnableStatus(),
		Alive:  true,
		links:  make(map[uint64]struct{}),
	}
	return p
}

// Pid satisfies value.ProcessHandle.
func (p *Process) Pid() uint64 { return p.pid }

func (p *Process) Status() Status    { return p.status }
func (p *Process) SetStatus(s Status) { p.status = s }

func (p *Process) PushFrame(f *Frame) { p.Frames = append(p.Frames, f) }

// PopFrame removes and returns the top frame, cancelling any pending
// timeout attached to it. ok is false if the stack is already empty.
func (p *Process) PopFrame() (f *Frame, ok bool) {
	n := len(p.Frames)
	if n == 0 {
		return nil, false
	}
	f = p.Frames[n-1]
	p.Frames = p.Frames[:n-1]
	if f.TimeoutActive != nil {
		f.TimeoutActive.Cancelled = true
	}
	return f, true
}

func (p *Process) TopFrame() (*Frame, bool) {
	if len(p.Frames) == 0 {
		return nil, false
	}
	return p.Frames[len(p.Frames)-1], true
}

// CancelPendingTimeout cancels the top frame's active ReceiveWithTimeout
// entry, if any. Call this wherever a WaitingForMessageTimeout process is
// given a message out of band (e.g. by Send waking it), so the timeout
// heap entry doesn't outlive the Receive it was guarding.
func (p *Process) CancelPendingTimeout() {
	f, ok := p.TopFrame()
	if !ok || f.TimeoutActive == nil {
		return
	}
	f.TimeoutActive.Cancelled = true
	f.TimeoutActive = nil
}

// EnqueueMessage appends msg to the mailbox. Safe to call from any
// scheduler shard (spec.md §4.2: Send must never block the sender).
func (p *Process) EnqueueMessage(msg value.Value) {
	p.mailboxMu.Lock()
	p.mailbox = append(p.mailbox, msg)
	p.mailboxMu.Unlock()
}

// TakeOneMessage removes and returns the mailbox head, FIFO (spec.md §3
// invariant c).
func (p *Process) TakeOneMessage() (value.Value, bool) {
	p.mailboxMu.Lock()
	defer p.mailboxMu.Unlock()
	if len(p.mailbox) == 0 {
		return value.Value{}, false
	}
	msg := p.mailbox[0]
	p.mailbox = p.mailbox[1:]
	return msg, true
}

func (p *Process) MailboxLen() int {
	p.mailboxMu.Lock()
	defer p.mailboxMu.Unlock()
	return len(p.mailbox)
}

// AddLink registers a bidirectional link between p and other. Call on
// both ends; the scheduler is responsible for making this atomic with
// respect to exit delivery by holding whatever lock it uses for the
// process table while calling this on both sides (spec.md §4.3: "atomic
// with respect to exit delivery").
func (p *Process) AddLink(otherPid uint64) {
	p.linksMu.Lock()
	p.links[otherPid] = struct{}{}
	p.linksMu.Unlock()
}

func (p *Process) Links() []uint64 {
	p.linksMu.Lock()
	defer p.linksMu.Unlock()
	out := make([]uint64, 0, len(p.links))
	for pid := range p.links {
		out = append(out, pid)
	}
	return out
}

// OnExit marks the process Exited with reason and records it for link
// delivery; it does not itself notify links (the scheduler does, since
// it owns the other processes' mailboxes).
func (p *Process) OnExit(reason value.Value) {
	p.Alive = false
	p.status = ExitedStatus()
	p.ExitReason = reason
}
