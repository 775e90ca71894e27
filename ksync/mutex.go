package ksync

import "kernel32/list"

// Mutex is the reentrant lock built from a holder identity, a binary
// semaphore, and a repeat count so the holding task can re-acquire without
// deadlocking itself (used e.g. by a pool mutex acquired both by a direct
// sys_malloc call and, transitively, by a nested get_kernel_pages call on
// the same task's stack).
type Mutex struct {
	holder         *list.Node
	sem            *Semaphore
	holderRepeatNr int
}

// NewMutex creates an unheld reentrant mutex.
func NewMutex() *Mutex {
	return &Mutex{sem: NewSemaphore(1)}
}

// Acquire blocks until the mutex is free, unless the current task already
// holds it, in which case it just bumps the repeat count.
func (m *Mutex) Acquire() {
	if singleThreaded() {
		m.holderRepeatNr++
		return
	}
	cur := sched.CurrentNode()
	if m.holder != cur {
		m.sem.Down()
		m.holder = cur
		m.holderRepeatNr = 1
	} else {
		m.holderRepeatNr++
	}
}

// Release decrements the repeat count, and only actually releases the
// underlying semaphore (waking a waiter) once the count reaches zero.
// Panics if the current task does not hold the mutex — this is the
// invariant violation, not a resource shortage to shrug off.
func (m *Mutex) Release() {
	if singleThreaded() {
		if m.holderRepeatNr > 0 {
			m.holderRepeatNr--
		}
		return
	}
	cur := sched.CurrentNode()
	if m.holder != cur {
		panic("ksync: Release of a mutex not held by the current task")
	}
	if m.holderRepeatNr > 1 {
		m.holderRepeatNr--
		return
	}
	m.holder = nil
	m.holderRepeatNr = 0
	m.sem.Up()
}

// HolderRepeatNr exposes the reentrancy depth for tests validating P6 /
// nested acquire/release sequences (observed sequence 1, 2, 1, 0).
func (m *Mutex) HolderRepeatNr() int {
	return m.holderRepeatNr
}

// IsHeldByCurrent reports whether the current task already holds m.
func (m *Mutex) IsHeldByCurrent() bool {
	if singleThreaded() {
		return m.holderRepeatNr > 0
	}
	return m.holder == sched.CurrentNode()
}
