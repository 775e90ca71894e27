package ksync

import (
	"kernel32/archx86"
	"kernel32/list"
)

const ioQueueSize = 64

// IOQueue is the bounded single-producer/single-consumer byte queue of
// the keyboard-to-shell pipe. One slot is always kept empty
// to disambiguate full from empty (0 <= used <= 63).
//
// Both Putchar and Getchar require the caller to have already disabled
// interrupts (the interrupts-off discipline for these primitives covers
// ioq_full/ioq_empty/ioq_getchar/ioq_putchar), which MustBeDisabled asserts.
type IOQueue struct {
	buf        [ioQueueSize]byte
	head, tail int

	mu             *Mutex
	producerWaiter *list.Node
	consumerWaiter *list.Node
}

// NewIOQueue returns an empty queue.
func NewIOQueue() *IOQueue {
	return &IOQueue{mu: NewMutex()}
}

func next(p int) int {
	return (p + 1) % ioQueueSize
}

// Full reports whether the queue has no room for another byte.
func (q *IOQueue) Full() bool {
	archx86.MustBeDisabled("ioq_full")
	return next(q.head) == q.tail
}

// Empty reports whether the queue has nothing to read.
func (q *IOQueue) Empty() bool {
	archx86.MustBeDisabled("ioq_empty")
	return q.head == q.tail
}

// Len returns the number of bytes currently buffered.
func (q *IOQueue) Len() int {
	if q.head >= q.tail {
		return q.head - q.tail
	}
	return ioQueueSize - (q.tail - q.head)
}

// Putchar blocks while the queue is full, then enqueues b. If a consumer
// is waiting on empty, it is woken.
func (q *IOQueue) Putchar(b byte) {
	archx86.MustBeDisabled("ioq_putchar")
	for q.Full() {
		q.mu.Acquire()
		if !singleThreaded() {
			q.producerWaiter = sched.CurrentNode()
		}
		q.mu.Release()
		if singleThreaded() {
			// No scheduler yet: nothing will ever drain the queue for us.
			// Treat this as the resource-exhaustion case and
			// drop the byte rather than spin forever.
			return
		}
		sched.Block()
	}
	q.buf[q.head] = b
	q.head = next(q.head)
	if q.consumerWaiter != nil {
		n := q.consumerWaiter
		q.consumerWaiter = nil
		sched.Unblock(n)
	}
}

// Getchar blocks while the queue is empty, then dequeues and returns a byte.
// If a producer is waiting on full, it is woken.
func (q *IOQueue) Getchar() byte {
	archx86.MustBeDisabled("ioq_getchar")
	for q.Empty() {
		q.mu.Acquire()
		if !singleThreaded() {
			q.consumerWaiter = sched.CurrentNode()
		}
		q.mu.Release()
		if singleThreaded() {
			return 0
		}
		sched.Block()
	}
	b := q.buf[q.tail]
	q.tail = next(q.tail)
	if q.producerWaiter != nil {
		n := q.producerWaiter
		q.producerWaiter = nil
		sched.Unblock(n)
	}
	return b
}
