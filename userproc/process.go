// Package userproc creates ring-3 user processes: a fresh page directory
// sharing the kernel's high half, a per-task user virtual-address space
// and heap, and a fabricated ring-3 entry frame. The CR3/TSS.ESP0 switch
// on every schedule into a process is done by the sched package.
//
// Grounded on src/mazboot/golang/main/mmu.go's address-space construction
// (region bases, PDE/PTE bit layout) and src/go/mazarin/page.go's
// allocator, adapted from that single flat kernel address space to one
// page directory per user process.
package userproc

import (
	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/mm"
	"kernel32/sched"
)

// ProcessExecute creates a new user task that will begin executing at
// entry. It allocates the task's PCB and kernel stack, its user
// virtual-address space and heap, and its page directory, then seeds the
// kernel stack so the first time the scheduler switches to it, control
// lands in startProcessTrampoline.
func ProcessExecute(entry uint32, name string) (*sched.PCB, error) {
	pdPhys, err := createPageDir()
	if err != nil {
		return nil, err
	}

	space := mm.NewVAddrSpace(bootconfig.UserVaddrBase, userAddressSpacePages())
	heap := mm.NewHeap(mm.User, space)

	pcb, err := sched.CreateThread(name, bootconfig.DefaultUserPriority,
		archx86.FuncAddr(startProcessTrampoline), uintptr(entry))
	if err != nil {
		return nil, err
	}
	pcb.PageDir = pdPhys
	pcb.UserVAddr = space
	pcb.Heap = heap
	return pcb, nil
}

// userAddressSpacePages is the page count spanning
// [UserVaddrBase, UserStackVaddr) at page granularity.
func userAddressSpacePages() int {
	return int((bootconfig.UserStackVaddr - bootconfig.UserVaddrBase) / bootconfig.PageSize)
}
