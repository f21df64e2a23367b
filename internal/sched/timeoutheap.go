package sched

import (
	"container/heap"

	"github.com/ayushashi11/ionvm/internal/process"
)

// timeoutHeap is a container/heap.Interface over pending ReceiveWithTimeout
// entries, ordered by expiry (spec.md §4.4: "a timeout heap ordered by
// expiry"). Cancelled entries (frame already popped) are skipped lazily
// as they reach the front rather than spliced out eagerly, since
// HeapIndex bookkeeping for mid-heap removal buys nothing this core needs.
type timeoutHeap []*process.TimeoutEntry

func (h timeoutHeap) Len() int { return len(h) }

func (h timeoutHeap) Less(i, j int) bool {
	return h[i].ExpiryNano < h[j].ExpiryNano
}

func (h timeoutHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].HeapIndex = i
	h[j].HeapIndex = j
}

func (h *timeoutHeap) Push(x interface{}) {
	entry := x.(*process.TimeoutEntry)
	entry.HeapIndex = len(*h)
	*h = append(*h, entry)
}

func (h *timeoutHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.HeapIndex = -1
	*h = old[:n-1]
	return entry
}

var _ heap.Interface = (*timeoutHeap)(nil)
