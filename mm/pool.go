// Package mm is the two-tier memory manager: physical page-frame pools, a
// virtual-address bitmap allocator, the recursive page-table installer, and
// the arena/slab heap built on top. Grounded on page.go (the intrusive
// free-list-over-a-bitmap pattern) and heap.go (the arena header sitting at
// the start of its own page), adapted from that demand-paging model to this
// kernel's eager map-on-alloc model.
package mm

import (
	"kernel32/bitmap"
	"kernel32/bootconfig"
	"kernel32/ksync"
)

// Pool is a pool of physical page frames: a base address, a bitmap of
// allocated frames, and a mutex serializing every mutation. The kernel
// keeps exactly two of these, Kernel and User.
type Pool struct {
	Name     string
	BaseAddr uint32
	Pages    int
	bits     *bitmap.Bitmap
	mu       *ksync.Mutex
}

// NewPool creates a pool covering [base, base+pages*PageSize).
func NewPool(name string, base uint32, pages int) *Pool {
	b := bitmap.New(pages)
	b.Init(true)
	return &Pool{Name: name, BaseAddr: base, Pages: pages, bits: b, mu: ksync.NewMutex()}
}

// AllocPage finds one free frame, marks it used, and returns its physical
// address. ok is false on exhaustion: the resource-exhaustion convention
// throughout this kernel is to return a sentinel and let the caller decide
// policy rather than block or panic here.
func (p *Pool) AllocPage() (addr uint32, ok bool) {
	p.mu.Acquire()
	defer p.mu.Release()

	idx := p.bits.Scan(1)
	if idx < 0 {
		return 0, false
	}
	p.bits.Set(idx, 1)
	return p.BaseAddr + uint32(idx)*bootconfig.PageSize, true
}

// FreePage clears the bitmap bit for the frame at addr. addr must lie
// within this pool and be page-aligned; callers (mm's own mfree_page path)
// are trusted to have already validated that, per the bitmap's own
// caller-must-serialize contract.
func (p *Pool) FreePage(addr uint32) {
	p.mu.Acquire()
	defer p.mu.Release()

	idx := int((addr - p.BaseAddr) / bootconfig.PageSize)
	p.bits.Set(idx, 0)
}

// Contains reports whether addr falls inside this pool's physical range.
func (p *Pool) Contains(addr uint32) bool {
	if addr < p.BaseAddr {
		return false
	}
	return int((addr-p.BaseAddr)/bootconfig.PageSize) < p.Pages
}

var (
	// Kernel and User are the two pools every allocation ultimately draws
	// from. Init must be called once during bring-up before anything in
	// this package is used.
	Kernel *Pool
	User   *Pool
)

// Init installs the kernel and user physical-page pools. Called once from
// the root bring-up sequence once the bootloader's memory map is known.
func Init(kernelBase uint32, kernelPages int, userBase uint32, userPages int) {
	Kernel = NewPool("kernel", kernelBase, kernelPages)
	User = NewPool("user", userBase, userPages)
}
