package ksync

import (
	"sync"

	"kernel32/list"
)

// fakeScheduler is a test double for Scheduler that models a single-CPU
// cooperative kernel: only one simulated task's Go code runs at a time,
// guarded by an internal lock every task must hold to be "current". Block
// releases that lock and waits on a private channel; Unblock (called by
// whichever task currently holds the lock) just closes the channel, making
// the waiter runnable again — it does not itself cause a context switch,
// matching the real scheduler's thread_unblock which only moves a PCB back
// onto the ready list.
type fakeScheduler struct {
	mu      sync.Mutex
	current *list.Node
	wake    map[*list.Node]chan struct{}

	// blockHook, if set, runs right after a task has registered itself as a
	// waiter but before the cooperative lock is released — tests use it to
	// know precisely when a goroutine has actually reached its blocked
	// state, instead of racing on a sleep.
	blockHook func(n *list.Node)
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{wake: make(map[*list.Node]chan struct{})}
}

// run executes fn as the task identified by n: acquires the cooperative
// lock, makes n current, runs fn to completion (including through any
// number of Block/Unblock round trips), then releases the lock.
func (s *fakeScheduler) run(n *list.Node, fn func()) {
	s.mu.Lock()
	s.current = n
	fn()
	s.mu.Unlock()
}

func (s *fakeScheduler) CurrentNode() *list.Node {
	return s.current
}

func (s *fakeScheduler) Block() {
	n := s.current
	ch := make(chan struct{})
	s.wake[n] = ch
	if s.blockHook != nil {
		s.blockHook(n)
	}
	s.mu.Unlock()
	<-ch
	s.mu.Lock()
	s.current = n
}

func (s *fakeScheduler) Unblock(n *list.Node) {
	if ch, ok := s.wake[n]; ok {
		delete(s.wake, n)
		close(ch)
	}
}
