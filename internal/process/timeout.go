package process

// TimeoutEntry is a pending ReceiveWithTimeout wake record. The scheduler
// owns a min-heap of these ordered by ExpiryNano; the frame that issued
// the receive holds a pointer to the same entry so popping that frame
// (PopFrame, on Return from it) cancels the wake
// without the scheduler needing to search its heap (spec.md §4.3:
// "Timeouts attached to a frame are cancelled when that frame is popped").
type TimeoutEntry struct {
	Pid        uint64
	FrameIndex int
	Dst        uint32
	ResultReg  uint32
	ExpiryNano int64
	Cancelled  bool
	// HeapIndex is maintained by container/heap.Interface methods on the
	// scheduler's heap type; -1 when not currently in a heap.
	HeapIndex int
}
