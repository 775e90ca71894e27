package ksync

import (
	"kernel32/archx86"
	"kernel32/list"
)

// Semaphore is the counting semaphore built from an 8-bit value plus
// a waiter list. Initial value is caller-supplied — 0 for a pure signal
// (e.g. ata's disk_done), 1 for a binary mutex semaphore.
type Semaphore struct {
	value   uint8
	waiters *list.List
}

// NewSemaphore creates a semaphore with the given initial value.
func NewSemaphore(initial uint8) *Semaphore {
	return &Semaphore{value: initial, waiters: list.New()}
}

// Down blocks while the semaphore's value is zero, then decrements it.
// Unlike ioqueue's primitives, the caller does not need to disable
// interrupts first: Down establishes its own short disable/restore window
// per call, so the callee carries that obligation instead of every caller.
func (s *Semaphore) Down() {
	if singleThreaded() {
		if s.value > 0 {
			s.value--
		}
		return
	}
	g := archx86.NewGuard()
	defer g.Restore()
	for s.value == 0 {
		s.waiters.Append(sched.CurrentNode())
		sched.Block() // re-examine s.value on wake: another Up may race in
	}
	s.value--
}

// Up wakes one waiter (if any) and increments the value.
func (s *Semaphore) Up() {
	if singleThreaded() {
		s.value++
		return
	}
	g := archx86.NewGuard()
	defer g.Restore()
	if n := s.waiters.Pop(); n != nil {
		sched.Unblock(n)
	}
	s.value++
}

// Value returns the current count, for diagnostics and tests (P7 in
// the value never goes negative; value>0 implies waiters empty).
func (s *Semaphore) Value() uint8 {
	return s.value
}

// WaitersEmpty reports whether any task is currently blocked on this
// semaphore, used to check invariant P7.
func (s *Semaphore) WaitersEmpty() bool {
	return s.waiters.Empty()
}
