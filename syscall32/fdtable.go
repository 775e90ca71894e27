package syscall32

import "kernel32/sched"

// Reserved stdio slots.
const (
	fdStdin = iota
	fdStdout
	fdStderr
)

// allocFD finds the lowest free slot at or past the reserved stdio range
// and marks it open against inode. ok is false if the table is full.
func allocFD(pcb *sched.PCB, inode int) (fd int, ok bool) {
	for i := fdStderr + 1; i < len(pcb.FDTable); i++ {
		if !pcb.FDTable[i].Open {
			pcb.FDTable[i] = sched.FD{Open: true, Inode: inode}
			return i, true
		}
	}
	return 0, false
}

// fdValid reports whether fd names a currently open slot.
func fdValid(pcb *sched.PCB, fd int) bool {
	return fd >= 0 && fd < len(pcb.FDTable) && pcb.FDTable[fd].Open
}
