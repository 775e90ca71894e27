package mm

import (
	"kernel32/bitmap"
	"kernel32/bootconfig"
	"kernel32/ksync"
)

// VAddrSpace is a bitmap-backed virtual page allocator rooted at some base
// address — either the single kernel one (rooted at 0xC0100000) or a
// per-task user one (rooted at 0x08048000, bounded by the user-stack slot).
type VAddrSpace struct {
	base  uint32
	pages int
	bits  *bitmap.Bitmap
	mu    *ksync.Mutex
}

// NewVAddrSpace creates an allocator covering [base, base+pages*PageSize).
func NewVAddrSpace(base uint32, pages int) *VAddrSpace {
	b := bitmap.New(pages)
	b.Init(true)
	return &VAddrSpace{base: base, pages: pages, bits: b, mu: ksync.NewMutex()}
}

// Reserve finds n contiguous free pages and marks them used, returning the
// base virtual address of the run. ok is false if no run of that length
// exists.
func (v *VAddrSpace) Reserve(n int) (vaddr uint32, ok bool) {
	v.mu.Acquire()
	defer v.mu.Release()

	idx := v.bits.Scan(n)
	if idx < 0 {
		return 0, false
	}
	for i := 0; i < n; i++ {
		v.bits.Set(idx+i, 1)
	}
	return v.base + uint32(idx)*bootconfig.PageSize, true
}

// Release frees the n-page run starting at vaddr.
func (v *VAddrSpace) Release(vaddr uint32, n int) {
	v.mu.Acquire()
	defer v.mu.Release()

	idx := int((vaddr - v.base) / bootconfig.PageSize)
	for i := 0; i < n; i++ {
		v.bits.Set(idx+i, 0)
	}
}

// KernelVAddr is the single kernel virtual-address space, shared by every
// task. Initialized once at boot.
var KernelVAddr *VAddrSpace

// InitKernelVAddr installs the kernel virtual-address allocator.
func InitKernelVAddr() {
	span := bootconfig.KernelPDEEnd - bootconfig.KernelPDEStart
	pages := span * 1024 // 1024 PTEs per PDE
	KernelVAddr = NewVAddrSpace(bootconfig.KernelVaddrBase, pages)
}
