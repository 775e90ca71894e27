package mm

import (
	"unsafe"

	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/kpanic"
)

// Page-table entry flag bits.
const (
	flagPresent = 1 << 0
	flagRW      = 1 << 1
	flagUser    = 1 << 2
)

const (
	recursiveBase = 0xFFFFF000 // PDE array, self-mapped via entry 1023
	ptWindowBase  = 0xFFC00000 // every PT, addressable through the self-map
)

// pdePtr returns the virtual address of the page-directory entry for
// vaddr, using the recursive self-map at PDE 1023.
func pdePtr(vaddr uint32) *uint32 {
	idx := vaddr >> 22
	return (*uint32)(unsafe.Pointer(uintptr(recursiveBase + idx*4)))
}

// ptePtr returns the virtual address of the page-table entry for vaddr,
// reached through the same recursive window one level down.
func ptePtr(vaddr uint32) *uint32 {
	pdeIdx := vaddr >> 22
	pteIdx := (vaddr >> 12) & 0x3FF
	return (*uint32)(unsafe.Pointer(uintptr(ptWindowBase + pdeIdx*0x1000 + pteIdx*4)))
}

// Map installs a single PDE/PTE mapping from vaddr to paddr. If the PDE is
// absent, a fresh page table is allocated from the kernel pool (page tables
// are always kernel memory, even for a user mapping) and zeroed through its
// own virtual alias before the PTE is written.
func Map(vaddr, paddr uint32, userAccessible bool) error {
	pde := pdePtr(vaddr)
	pte := ptePtr(vaddr)

	if *pde&flagPresent == 0 {
		frame, ok := Kernel.AllocPage()
		if !ok {
			return errOOM
		}
		flags := uint32(flagPresent | flagRW)
		if userAccessible {
			flags |= flagUser
		}
		*pde = frame | flags
		archx86.InvalidatePage(vaddr &^ 0xFFF)
		zeroPageTable(vaddr)
	} else if *pte&flagPresent != 0 {
		kpanic.Panic("mm/pagetable.go", 0, "Map", "PTE already present")
	}

	flags := uint32(flagPresent | flagRW)
	if userAccessible {
		flags |= flagUser
	}
	*pte = paddr | flags
	archx86.InvalidatePage(vaddr)
	return nil
}

// zeroPageTable clears the 1024-entry page table backing vaddr's PDE,
// reached through the recursive window, so every PTE in a freshly allocated
// table starts absent.
func zeroPageTable(vaddr uint32) {
	pdeIdx := vaddr >> 22
	base := (*[1024]uint32)(unsafe.Pointer(uintptr(ptWindowBase + pdeIdx*0x1000)))
	for i := range base {
		base[i] = 0
	}
}

var errOOM = &oomError{}

type oomError struct{}

func (*oomError) Error() string { return "mm: pool exhausted" }

// MallocPage reserves n contiguous virtual pages from space, maps each to a
// freshly allocated physical frame from pool, and returns the base virtual
// address. On partial failure it unwinds every PTE and physical frame it
// had already installed before returning the error, instead of leaking the
// PTEs of the pages that had already succeeded.
func MallocPage(pool *Pool, space *VAddrSpace, n int) (uint32, error) {
	vaddr, ok := space.Reserve(n)
	if !ok {
		return 0, errOOM
	}

	userAccessible := pool == User
	mapped := 0
	for i := 0; i < n; i++ {
		frame, ok := pool.AllocPage()
		if !ok {
			unwindPartialMalloc(pool, vaddr, mapped)
			space.Release(vaddr, n)
			return 0, errOOM
		}
		page := vaddr + uint32(i)*bootconfig.PageSize
		if err := Map(page, frame, userAccessible); err != nil {
			pool.FreePage(frame)
			unwindPartialMalloc(pool, vaddr, mapped)
			space.Release(vaddr, n)
			return 0, err
		}
		mapped++
	}
	return vaddr, nil
}

// unwindPartialMalloc clears the PTE and frees the physical frame for each
// of the first `mapped` pages of an n-page MallocPage request that failed
// partway through.
func unwindPartialMalloc(pool *Pool, vaddr uint32, mapped int) {
	for i := 0; i < mapped; i++ {
		page := vaddr + uint32(i)*bootconfig.PageSize
		pte := ptePtr(page)
		frame := *pte &^ 0xFFF
		*pte = 0
		archx86.InvalidatePage(page)
		pool.FreePage(frame)
	}
}

// GetAPage installs a single frame from pool at a caller-chosen virtual
// address (the virtual slot was reserved out-of-band — a user-stack page
// during process spawn, a per-fault page during a copy-on-write style
// fault). Unlike MallocPage it does not itself reserve the virtual range.
func GetAPage(pool *Pool, vaddr uint32) error {
	frame, ok := pool.AllocPage()
	if !ok {
		return errOOM
	}
	if err := Map(vaddr, frame, pool == User); err != nil {
		pool.FreePage(frame)
		return err
	}
	return nil
}

// GetKernelPages reserves and maps n zeroed kernel pages.
func GetKernelPages(n int) (uint32, error) {
	vaddr, err := MallocPage(Kernel, KernelVAddr, n)
	if err != nil {
		return 0, err
	}
	zeroPages(vaddr, n)
	return vaddr, nil
}

// GetUserPages reserves and maps n zeroed user pages out of space, the
// calling task's own virtual-address bitmap.
func GetUserPages(space *VAddrSpace, n int) (uint32, error) {
	vaddr, err := MallocPage(User, space, n)
	if err != nil {
		return 0, err
	}
	zeroPages(vaddr, n)
	return vaddr, nil
}

func zeroPages(vaddr uint32, n int) {
	size := n * bootconfig.PageSize
	mem := (*[1 << 30]byte)(unsafe.Pointer(uintptr(vaddr)))[:size:size]
	for i := range mem {
		mem[i] = 0
	}
}

// CurrentPDE reads PDE index idx of the page directory currently loaded in
// CR3, via the recursive self-map — used by process creation to copy the
// kernel's high-half mapping into a fresh user page directory.
func CurrentPDE(idx int) uint32 {
	return *(*uint32)(unsafe.Pointer(uintptr(recursiveBase + uint32(idx)*4)))
}

// TranslateToPhysical resolves vaddr's mapped physical frame. Panics if
// vaddr is not currently mapped — callers are expected to have already
// mapped it (e.g. a page this allocator itself just installed).
func TranslateToPhysical(vaddr uint32) uint32 {
	pte := ptePtr(vaddr)
	if *pte&flagPresent == 0 {
		kpanic.Panic("mm/pagetable.go", 0, "TranslateToPhysical", "vaddr not mapped")
	}
	return *pte &^ 0xFFF
}

// WritePDESlot writes value into PDE index idx of the page directory whose
// kernel virtual alias is pdVirt — used to copy the high-half kernel
// mapping and install the recursive self-map entry on a freshly allocated
// page directory, before it is ever loaded into CR3.
func WritePDESlot(pdVirt uint32, idx int, value uint32) {
	entries := (*[1024]uint32)(unsafe.Pointer(uintptr(pdVirt)))
	entries[idx] = value
}

// MFreePage unmaps and frees the n pages starting at vaddr: for each page,
// resolve the PTE to a physical frame, clear the owning pool's bitmap bit,
// clear the PTE, and invalidate the TLB entry. Physical addresses below
// 0x102000 (the low-memory/kernel-image region) are refused — freeing one
// is an invariant violation, not a resource-exhaustion case.
func MFreePage(space *VAddrSpace, vaddr uint32, n int) {
	for i := 0; i < n; i++ {
		page := vaddr + uint32(i)*bootconfig.PageSize
		pte := ptePtr(page)
		if *pte&flagPresent == 0 {
			kpanic.Panic("mm/pagetable.go", 0, "MFreePage", "freeing an unmapped page")
		}
		frame := *pte &^ 0xFFF
		if frame < 0x102000 {
			kpanic.Panic("mm/pagetable.go", 0, "MFreePage", "refusing to free below the kernel image")
		}
		pool := Kernel
		if pool.Contains(frame) == false {
			pool = User
		}
		pool.FreePage(frame)
		*pte = 0
		archx86.InvalidatePage(page)
	}
	space.Release(vaddr, n)
}
