package userproc

import (
	"unsafe"

	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/irq"
	"kernel32/kpanic"
	"kernel32/mm"
)

// startProcessTrampoline is the entry point ProcessExecute seeds onto a
// fresh task's kernel stack. The scheduler's first switch into that task
// "returns" here with arg holding the user entry point passed to
// ProcessExecute. By the time this runs, Schedule has already loaded the
// task's own page directory (activateAddressSpace), so mapping the user
// stack page here lands it in the right address space.
//
// Grounded on src/mazboot/golang/main/mmu.go's start_process, which maps
// the user stack and fabricates the ring-3 entry frame in exactly this
// order, right before the iret into user mode.
func startProcessTrampoline(arg uintptr) {
	entry := uint32(arg)

	if err := mm.GetAPage(mm.User, bootconfig.UserStackVaddr); err != nil {
		kpanic.Panic("userproc/trampoline.go", 0, "startProcessTrampoline", err.Error())
	}

	var frame irq.Frame
	frame.DS = bootconfig.UserDataSelector
	frame.ES = bootconfig.UserDataSelector
	frame.FS = bootconfig.UserDataSelector
	frame.GS = bootconfig.UserDataSelector
	frame.EIP = entry
	frame.CS = bootconfig.UserCodeSelector
	frame.EFLAGS = bootconfig.EFlagsIOPL0MBSIF1
	frame.UserESP = bootconfig.UserStackVaddr + bootconfig.PageSize
	frame.UserSS = bootconfig.UserDataSelector

	archx86.EnterUserMode(uint32(uintptr(unsafe.Pointer(&frame))))
}
