// Package ring provides a fixed-size single-producer, single-consumer queue
// that never allocates after construction.
package ring

import (
	"runtime"
	"sync/atomic"
)

// Queue is a bounded SPSC queue. The producer writes the slot before
// publishing head, so the consumer never sees a half-written element.
type Queue[T any] struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	slots []T
}

// New returns a queue holding up to slots elements.
func New[T any](slots int) *Queue[T] {
	if slots < 1 {
		slots = 1
	}
	return &Queue[T]{slots: make([]T, slots)}
}

// TrySend enqueues v, returning false if the queue is full.
func (q *Queue[T]) TrySend(v T) bool {
	head := q.head.Load()
	tail := q.tail.Load()
	if head-tail >= uint32(len(q.slots)) {
		return false
	}
	q.slots[head%uint32(len(q.slots))] = v
	q.head.Store(head + 1)
	return true
}

// Send enqueues v, yielding until there is room.
func (q *Queue[T]) Send(v T) {
	for !q.TrySend(v) {
		runtime.Gosched()
	}
}

// TryRecv dequeues one element, returning false if empty.
func (q *Queue[T]) TryRecv() (T, bool) {
	tail := q.tail.Load()
	head := q.head.Load()
	if tail == head {
		var zero T
		return zero, false
	}
	v := q.slots[tail%uint32(len(q.slots))]
	q.tail.Store(tail + 1)
	return v, true
}

// Drain hands every queued element to fn in order and returns how many were
// consumed.
func (q *Queue[T]) Drain(fn func(T)) int {
	n := 0
	for {
		v, ok := q.TryRecv()
		if !ok {
			return n
		}
		fn(v)
		n++
	}
}
