package process

import (
	"testing"

	"github.com/ayushashi11/ionvm/internal/value"
)

func testFn(arity uint32) *value.Function {
	return &value.Function{Arity: arity, FnKind: value.KindBytecode, Instructions: []value.Instruction{
		{Op: value.OpReturn, Reg: 0},
	}}
}

func TestNewProcessRunnable(t *testing.T) {
	p := New(1, testFn(0), nil)
	if p.Status().Kind != Runnable {
		t.Fatalf("new process status = %v, want Runnable", p.Status())
	}
	if !p.Alive {
		t.Fatalf("new process must be Alive")
	}
}

func TestMailboxFIFO(t *testing.T) {
	p := New(1, testFn(0), nil)
	p.EnqueueMessage(value.Number(1))
	p.EnqueueMessage(value.Number(2))
	p.EnqueueMessage(value.Number(3))

	for _, want := range []float64{1, 2, 3} {
		got, ok := p.TakeOneMessage()
		if !ok || got.AsNumber() != want {
			t.Fatalf("TakeOneMessage = %v, %v; want %v, true", got, ok, want)
		}
	}
	if _, ok := p.TakeOneMessage(); ok {
		t.Fatalf("expected empty mailbox")
	}
}

func TestPushPopFrame(t *testing.T) {
	p := New(1, testFn(0), nil)
	f2 := NewFrame(testFn(1), []value.Value{value.Number(9)}, 0, true)
	p.PushFrame(f2)

	top, ok := p.TopFrame()
	if !ok || top != f2 {
		t.Fatalf("TopFrame did not return pushed frame")
	}

	popped, ok := p.PopFrame()
	if !ok || popped != f2 {
		t.Fatalf("PopFrame did not return the pushed frame")
	}
	if len(p.Frames) != 1 {
		t.Fatalf("expected 1 frame remaining, got %d", len(p.Frames))
	}
}

func TestPopFrameCancelsTimeout(t *testing.T) {
	p := New(1, testFn(0), nil)
	entry := &TimeoutEntry{Pid: p.Pid(), HeapIndex: -1}
	top, _ := p.TopFrame()
	top.TimeoutActive = entry

	if _, ok := p.PopFrame(); !ok {
		t.Fatalf("expected successful pop")
	}
	if !entry.Cancelled {
		t.Fatalf("expected timeout entry to be cancelled on frame pop")
	}
}

func TestCancelPendingTimeout(t *testing.T) {
	p := New(1, testFn(0), nil)
	entry := &TimeoutEntry{Pid: p.Pid(), HeapIndex: -1}
	top, _ := p.TopFrame()
	top.TimeoutActive = entry

	p.CancelPendingTimeout()
	if !entry.Cancelled {
		t.Fatalf("expected timeout entry to be cancelled")
	}
	if top.TimeoutActive != nil {
		t.Fatalf("expected frame's TimeoutActive to be cleared")
	}

	// A second call with nothing pending must be a no-op, not a panic.
	p.CancelPendingTimeout()
}

func TestPopFrameOnEmptyStack(t *testing.T) {
	p := New(1, testFn(0), nil)
	p.PopFrame()
	if _, ok := p.PopFrame(); ok {
		t.Fatalf("expected PopFrame on empty stack to report ok=false")
	}
}

func TestLinksAreBidirectionalByCaller(t *testing.T) {
	a := New(1, testFn(0), nil)
	b := New(2, testFn(0), nil)
	a.AddLink(b.Pid())
	b.AddLink(a.Pid())

	if links := a.Links(); len(links) != 1 || links[0] != 2 {
		t.Errorf("a.Links() = %v, want [2]", links)
	}
	if links := b.Links(); len(links) != 1 || links[0] != 1 {
		t.Errorf("b.Links() = %v, want [1]", links)
	}
}

func TestOnExitMarksDeadWithReason(t *testing.T) {
	p := New(1, testFn(0), nil)
	reason := value.FromTaggedEnum("error", value.Atom("div_by_zero"))
	p.OnExit(reason)

	if p.Alive {
		t.Fatalf("expected Alive=false after OnExit")
	}
	if p.Status().Kind != Exited {
		t.Fatalf("expected status Exited, got %v", p.Status())
	}
	if !p.ExitReason.Equals(reason) {
		t.Errorf("ExitReason = %v, want %v", p.ExitReason, reason)
	}
}

func TestStatusStringsCarryPayload(t *testing.T) {
	s := Status{Kind: Linked, LinkTarget: 42}
	if got := s.String(); got != "Linked(42)" {
		t.Errorf("String() = %q, want Linked(42)", got)
	}
	s2 := Status{Kind: WaitingForMessageTimeout, ExpiryNano: 100}
	if got := s2.String(); got != "WaitingForMessageTimeout(100)" {
		t.Errorf("String() = %q, want WaitingForMessageTimeout(100)", got)
	}
}
