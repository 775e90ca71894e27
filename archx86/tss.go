package archx86

import "kernel32/bootconfig"

// TSS is the minimal task-state-segment fields this kernel ever touches:
// the ring-0 stack pointer and segment a ring-3 -> ring-0 transition loads.
// Everything else a real 104-byte TSS carries (I/O bitmap, other ring
// stacks, segment selectors for a hardware task switch) goes unused here,
// matching the "model only the hardware surface actually exercised"
// practice applied throughout this package's register-constant blocks.
type TSS struct {
	Reserved0 uint32
	ESP0      uint32
	SS0       uint32
	_         [22]uint32
}

var activeTSS *TSS

// InstallTSS registers t as the TSS this kernel updates on every schedule
// into a user process, and loads the task register to point at it.
// Called once during bring-up, after the GDT (out of scope here) has a TSS
// descriptor at selector.
func InstallTSS(t *TSS, selector uint16) {
	t.SS0 = bootconfig.KernelDataSelector
	activeTSS = t
	LTR(selector)
}

// SetKernelStack updates the active TSS's ESP0 so the next ring-3 -> ring-0
// transition (a syscall or a hardware IRQ trapped out of user mode) lands
// on esp0 — the scheduler calls this once per switch into a user task.
func SetKernelStack(esp0 uint32) {
	if activeTSS != nil {
		activeTSS.ESP0 = esp0
	}
}
