package mm

import (
	"unsafe"

	"kernel32/bootconfig"
	"kernel32/ksync"
	"kernel32/list"
)

// arenaHeaderSize is sizeof(Arena): a descriptor pointer, a count, and a
// large flag, each a machine word.
const arenaHeaderSize = 12

// arena is the header every heap-backing page begins with. When
// large is non-zero the allocation spans cnt contiguous pages and the
// caller's pointer sits immediately after this header; otherwise the page
// is sliced into blocksPerArena(desc.blockSize) equal blocks and cnt counts
// how many of them are still free.
type arena struct {
	desc  *blockDesc
	cnt   int32
	large uint32
}

func arenaAt(addr uintptr) *arena {
	return (*arena)(unsafe.Pointer(addr))
}

// blockDesc is one of the seven fixed size classes a Heap maintains.
type blockDesc struct {
	blockSize int
	freeList  *list.List
	mu        *ksync.Mutex
}

func blocksPerArena(blockSize int) int {
	return (bootconfig.PageSize - arenaHeaderSize) / blockSize
}

// sizeClassIndex returns the index of the smallest size class able to hold
// size bytes, or ok=false if size exceeds every class (the caller should
// fall back to the large-allocation path).
func sizeClassIndex(size int) (idx int, ok bool) {
	for i, class := range bootconfig.BlockSizeClasses {
		if size <= class {
			return i, true
		}
	}
	return 0, false
}

func ceilDivPages(totalBytes int) int {
	return (totalBytes + bootconfig.PageSize - 1) / bootconfig.PageSize
}

// Heap is a slab/arena allocator over one pool and one virtual-address
// space — the kernel heap is a single global Heap; each user task owns one
// bound to its own pool.User space (each task gets its own per-task
// heap-block descriptors).
type Heap struct {
	pool  *Pool
	space *VAddrSpace
	descs [len(bootconfig.BlockSizeClasses)]*blockDesc
}

// NewHeap creates a heap with empty free lists for every size class.
func NewHeap(pool *Pool, space *VAddrSpace) *Heap {
	h := &Heap{pool: pool, space: space}
	for i, class := range bootconfig.BlockSizeClasses {
		h.descs[i] = &blockDesc{blockSize: class, freeList: list.New(), mu: ksync.NewMutex()}
	}
	return h
}

// SysMalloc allocates size bytes, returning the base address of the usable
// region. Requests over MaxBlockSize take the large-allocation path: a
// whole-page run with an Arena{large: true} header. Everything else comes
// out of the smallest size class that fits.
func (h *Heap) SysMalloc(size int) (uintptr, error) {
	if size > bootconfig.MaxBlockSize {
		pages := ceilDivPages(size + arenaHeaderSize)
		base, err := MallocPage(h.pool, h.space, pages)
		if err != nil {
			return 0, err
		}
		a := arenaAt(uintptr(base))
		*a = arena{desc: nil, cnt: int32(pages), large: 1}
		return uintptr(base) + arenaHeaderSize, nil
	}

	idx, ok := sizeClassIndex(size)
	if !ok {
		return 0, errOOM
	}
	desc := h.descs[idx]
	desc.mu.Acquire()
	defer desc.mu.Release()

	if desc.freeList.Empty() {
		if err := h.growArena(desc); err != nil {
			return 0, err
		}
	}

	n := desc.freeList.Pop()
	arenaAt(uintptr(unsafe.Pointer(n)) &^ 0xFFF).cnt--
	return uintptr(unsafe.Pointer(n)), nil
}

// growArena allocates and initializes one fresh page for desc: zeroes it,
// writes the Arena header, then threads every block onto desc's free list.
// The threading step disables interrupts around the list splice so the
// timer IRQ can't preempt mid-link, matching every other list mutation in
// this kernel.
func (h *Heap) growArena(desc *blockDesc) error {
	base, err := MallocPage(h.pool, h.space, 1)
	if err != nil {
		return err
	}
	count := blocksPerArena(desc.blockSize)
	a := arenaAt(uintptr(base))
	*a = arena{desc: desc, cnt: int32(count), large: 0}

	for i := 0; i < count; i++ {
		blockAddr := uintptr(base) + arenaHeaderSize + uintptr(i*desc.blockSize)
		n := (*list.Node)(unsafe.Pointer(blockAddr))
		*n = list.Node{}
		desc.freeList.Append(n)
	}
	return nil
}

// SysFree returns ptr (as previously returned by SysMalloc) to its arena.
// For a large allocation the whole page run is released back to the pool.
// For a small-class block, it is pushed back onto its descriptor's free
// list; once every block in the arena is free the arena page itself is
// released.
func (h *Heap) SysFree(ptr uintptr) {
	base := ptr &^ 0xFFF
	a := arenaAt(base)
	if a.large != 0 {
		MFreePage(h.space, uint32(base), int(a.cnt))
		return
	}

	desc := a.desc
	desc.mu.Acquire()
	defer desc.mu.Release()

	n := (*list.Node)(unsafe.Pointer(ptr))
	*n = list.Node{}
	desc.freeList.Append(n)
	a.cnt++

	if int(a.cnt) == blocksPerArena(desc.blockSize) {
		count := blocksPerArena(desc.blockSize)
		for i := 0; i < count; i++ {
			blockAddr := base + arenaHeaderSize + uintptr(i*desc.blockSize)
			blockNode := (*list.Node)(unsafe.Pointer(blockAddr))
			desc.freeList.Remove(blockNode)
		}
		MFreePage(h.space, uint32(base), 1)
	}
}
