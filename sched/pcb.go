// Package sched implements the round-robin preemptive scheduler: the PCB,
// the ready/all-task lists, block/unblock/yield, the idle task, and
// current-task discovery from the kernel stack pointer. Grounded on
// goroutine.go/scheduler_bootstrap.go for the general shape of a
// from-scratch scheduler bring-up, and on list.go's intrusive-node design
// for the PCB's two embedded list nodes.
package sched

import (
	"unsafe"

	"kernel32/bootconfig"
	"kernel32/list"
	"kernel32/mm"
)

// Status is a PCB's run state.
type Status int

const (
	Running Status = iota
	Ready
	Blocked
	Waiting
	Hanging
	Dead
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Ready:
		return "Ready"
	case Blocked:
		return "Blocked"
	case Waiting:
		return "Waiting"
	case Hanging:
		return "Hanging"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}

// FD is one slot of a task's file-descriptor table. The filesystem itself
// is out of scope; this core only needs the slot bookkeeping.
type FD struct {
	Open  bool
	Inode int
}

const fdTableSize = bootconfig.FDTableSize

// PCB is the per-task control block. It occupies the low end of a single
// page whose top is the task's kernel stack; General and
// AllTasks are the two independent list.Node tags that let a PCB be linked
// into the ready/waiter list and the all-tasks list simultaneously.
type PCB struct {
	General  list.Node
	AllTasks list.Node

	PID      int
	Name     string
	Status   Status
	Priority int
	Ticks    int // remaining ticks this slice
	Elapsed  int // total ticks ever run

	KStackTop uint32 // saved stack pointer, valid while not Running
	PageDir   uint32 // physical addr of this task's page directory; 0 = kernel thread

	UserVAddr *mm.VAddrSpace // nil for kernel threads
	Heap      *mm.Heap

	FDTable   [fdTableSize]FD
	CWDInode  int
	ParentPID int

	StackMagic uint32
}

// pcbFromGeneralNode recovers the owning PCB from its General tag, the way
// every ready-list/waiter-list consumer gets back a task identity from a
// bare *list.Node. General is PCB's first field, so the node's address and
// the PCB's address coincide.
func pcbFromGeneralNode(n *list.Node) *PCB {
	return (*PCB)(unsafe.Pointer(n))
}

// IsKernelThread reports whether this PCB has no page directory of its own.
func (p *PCB) IsKernelThread() bool {
	return p.PageDir == 0
}

// pcbFromAllTasksNode recovers the owning PCB from its AllTasks tag.
// Unlike General, AllTasks is not PCB's first field, so the node address
// and the PCB address differ by AllTasks's offset within PCB.
func pcbFromAllTasksNode(n *list.Node) *PCB {
	return (*PCB)(unsafe.Pointer(uintptr(unsafe.Pointer(n)) - unsafe.Offsetof(PCB{}.AllTasks)))
}
