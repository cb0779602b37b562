package common

import "go.uber.org/atomic"

// IDAllocator hands out increasing ids starting from its seed. It is safe
// for concurrent use.
type IDAllocator struct {
	next *atomic.Uint64
}

func NewIDAllocator(start uint64) *IDAllocator {
	return &IDAllocator{next: atomic.NewUint64(start)}
}

// Alloc returns the current value and advances the counter.
func (alloc *IDAllocator) Alloc() uint64 {
	return alloc.next.Inc() - 1
}

// Peek returns the id the next Alloc will return.
func (alloc *IDAllocator) Peek() uint64 {
	return alloc.next.Load()
}
