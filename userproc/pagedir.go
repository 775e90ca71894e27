package userproc

import (
	"kernel32/bootconfig"
	"kernel32/mm"
)

// createPageDir allocates one kernel page for a new page directory, copies
// the kernel's high-half PDE slots (>= KernelPDEStart) from the currently
// active page directory, installs the recursive self-map at entry 1023,
// and returns the new directory's physical address (what CR3 wants). The
// low half is left zero — user space starts empty.
func createPageDir() (physAddr uint32, err error) {
	pdVirt, err := mm.GetKernelPages(1)
	if err != nil {
		return 0, err
	}
	physAddr = mm.TranslateToPhysical(pdVirt)

	for i := bootconfig.KernelPDEStart; i <= bootconfig.KernelPDEEnd; i++ {
		mm.WritePDESlot(pdVirt, i, mm.CurrentPDE(i))
	}
	mm.WritePDESlot(pdVirt, bootconfig.PDESelfMapIndex, physAddr|pdeFlagsPresentRW)

	return physAddr, nil
}

const pdeFlagsPresentRW = 1<<0 | 1<<1 // present | read-write
