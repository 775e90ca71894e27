package sched

import (
	"unsafe"

	"kernel32/kpanic"
)

// pageHeader reinterprets a physical/virtual page address as a raw pointer,
// the same cast mm's arenaAt uses to treat a page's first bytes as a
// struct header.
func pageHeader(page uint32) unsafe.Pointer {
	return unsafe.Pointer(uintptr(page))
}

// initialFrame is the register image SwitchStacks pops when resuming a
// task for the very first time: the callee-saved registers a real
// switch_to trampoline restores, followed by the entry point it "returns"
// into and the one argument word passed to it. Laid out to match the
// assembly trampoline's expectations, the same contract a scheduler
// bring-up has with its hand-written context-switch stub.
type initialFrame struct {
	ebx, esi, edi, ebp uint32
	entry              uintptr
	arg                uintptr
}

// seedInitialFrame writes an initialFrame at the top of a fresh task's
// kernel stack and returns the new (lower) stack pointer SwitchStacks
// should resume from. Every callee-saved register starts zeroed; only
// entry and arg are meaningful until the task's own code runs.
func seedInitialFrame(stackTop uint32, entry, arg uintptr) uint32 {
	sp := stackTop - uint32(unsafe.Sizeof(initialFrame{}))
	f := (*initialFrame)(unsafe.Pointer(uintptr(sp)))
	*f = initialFrame{entry: entry, arg: arg}
	return sp
}

// stackMagicViolation reports a clobbered stack-overflow sentinel through
// the one unrecoverable-error path every subsystem shares.
func stackMagicViolation(pcb *PCB) {
	kpanic.Panic("sched/scheduler.go", 0, "checkStackMagic", "kernel stack overflow: "+pcb.Name)
}
