// Package ksync implements the three synchronization primitives built on
// top of the scheduler: a counting semaphore, a reentrant
// mutex, and the bounded single-producer/single-consumer byte queue used for
// the keyboard-to-shell pipe.
//
// ksync does not import sched directly — that would create an import cycle,
// since sched itself needs mm (to allocate a PCB's kernel page) and mm needs
// ksync (to guard its pools). Instead, sched registers itself here through
// the small Scheduler interface below and SetScheduler, the same
// dependency-inversion idiom gopheros/kernel/mem/vmm uses for its frame
// allocator (SetFrameAllocator) — a package that needs a higher-level
// collaborator takes a function/interface value instead of an import.
package ksync

import "kernel32/list"

// Scheduler is the minimal surface ksync needs from the scheduler: a stable
// identity for the current task (the PCB's embedded "general" list.Node,
// whose address never changes across the PCB's lifetime regardless of which
// list it is currently linked into), plus block/unblock.
type Scheduler interface {
	// CurrentNode returns the current task's general-tag node, used both as
	// a waiter-list entry and as an opaque holder identity for Mutex.
	CurrentNode() *list.Node
	// Block puts the current task to sleep (status Blocked) and reschedules;
	// it returns only once some Unblock(CurrentNode()) call has run.
	Block()
	// Unblock wakes the task identified by n, which must currently be
	// blocked and unlinked from any waiter list the caller was using it on.
	Unblock(n *list.Node)
}

var sched Scheduler

// SetScheduler registers the scheduler implementation. Called once during
// kernel bring-up, before any task can contend on a semaphore or mutex.
func SetScheduler(s Scheduler) {
	sched = s
}

// singleThreaded reports whether no scheduler has been installed yet. Early
// boot code (console, klog) acquires mutexes before the scheduler exists;
// in that window there is exactly one thread of control, so Acquire/Down
// degrade to no-ops instead of dereferencing a nil Scheduler.
func singleThreaded() bool {
	return sched == nil
}
