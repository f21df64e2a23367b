// Package process implements the actor-model process: frames, mailbox,
// links, and the status state machine of spec.md §4.2. Grounded on
// original_source/vmm/src/vm.rs's ProcessStatus enum and
// handle_execution_result for the exact transition vocabulary.
package process

import "fmt"

// StatusKind is the tag of a Status value. Linked and WaitingForMessageTimeout
// carry payloads (a target pid, an expiry), so Status is a small struct
// rather than a bare enum.
type StatusKind uint8

const (
	Runnable StatusKind = iota
	Running
	WaitingForMessage
	WaitingForMessageTimeout
	Linked
	Exited
)

func (k StatusKind) String() string {
	switch k {
	case Runnable:
		return "Runnable"
	case Running:
		return "Running"
	case WaitingForMessage:
		return "WaitingForMessage"
	case WaitingForMessageTimeout:
		return "WaitingForMessageTimeout"
	case Linked:
		return "Linked"
	case Exited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// Status is the process's current scheduling state, per spec.md §4.2's
// transition diagram.
type Status struct {
	Kind       StatusKind
	LinkTarget uint64 // valid when Kind == Linked
	ExpiryNano int64  // valid when Kind == WaitingForMessageTimeout
}

func (s Status) String() string {
	switch s.Kind {
	case Linked:
		return fmt.Sprintf("Linked(%d)", s.LinkTarget)
	case WaitingForMessageTimeout:
		return fmt.Sprintf("WaitingForMessageTimeout(%d)", s.ExpiryNano)
	default:
		return s.Kind.String()
	}
}

func RunnableStatus() Status { return Status{Kind: Runnable} }
func RunningStatus() Status  { return Status{Kind: Running} }
func ExitedStatus() Status   { return Status{Kind: Exited} }
