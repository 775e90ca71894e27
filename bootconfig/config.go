// Package bootconfig holds the layout constants a real build would normally
// pull from a linker script or Kconfig — pool bases and sizes, page size,
// heap size classes, PIT frequency, IDE port bases, the 80 MiB LBA ceiling.
//
// Grounded on the practice of collecting every such address into
// package-level const blocks (src/mazboot/golang/main/mmu.go's
// PAGE_TABLE_BASE/KMALLOC_HEAP_BASE/... blocks) instead of a config file: a
// freestanding kernel has nowhere to read a config file from before its own
// memory manager exists, so these stay compile-time constants here too.
package bootconfig

const (
	PageSize = 4096

	// Kernel virtual-address bitmap root.
	KernelVaddrBase = 0xC0100000

	// User virtual-address bitmap bounds.
	UserVaddrBase  = 0x08048000
	UserStackVaddr = 0xC0000000 - PageSize

	// Recursive page-directory self-map slot and kernel/user PDE range.
	PDESelfMapIndex = 1023
	KernelPDEStart  = 0x300
	KernelPDEEnd    = 0x3FE

	// Heap size classes, 16 bytes through 1024 bytes.
	MinBlockSize = 16
	MaxBlockSize = 1024

	// Timer: PIT channel 0 programmed for ~100 Hz.
	PITInputClockHz = 1193180
	TimerHz         = 100
	MsPerTick       = 1000 / TimerHz

	// ATA/IDE: disk geometry assumption.
	SectorSize       = 512
	MaxSectorsPerCmd = 256
	MaxLBA           = (80 * 1024 * 1024 / SectorSize) - 1 // 80 MiB ceiling
	IDEPollTimeoutMs = 30_000

	// Per-task fixed-size tables.
	FDTableSize = 8

	// Scheduler: priority doubles as the time-slice length in ticks, so
	// the idle task's slice is shorter than a default user task's; it only
	// ever runs when nothing else is ready.
	IdlePriority = 10

	// Default priority (and time-slice length) assigned to a freshly
	// created user process.
	DefaultUserPriority = 31

	// Sentinel word placed at a known PCB offset to detect kernel-stack
	// overflow.
	StackMagic = 0x19870916

	// GDT selectors. RPL 0 for kernel, RPL 3 (|3) for user, matching the
	// flat-memory-model descriptor layout every x86 protected-mode kernel
	// of this shape uses.
	KernelCodeSelector = 0x08
	KernelDataSelector = 0x10
	UserCodeSelector   = 0x18 | 3
	UserDataSelector   = 0x20 | 3
	TSSSelector        = 0x28

	// EFLAGS bits start_process fabricates for a fresh ring-3 frame:
	// IOPL 0, the always-1 reserved bit, interrupts enabled.
	EFlagsIOPL0MBSIF1 = 0x202

	// Physical page-frame pools. The kernel pool starts at 1 MiB (past the
	// BIOS/real-mode area and the kernel image itself, the same boundary
	// original_source/kernel/memory.c's used_mem reserves) and runs 16 MiB;
	// the user pool picks up immediately after it and runs 32 MiB. A real
	// build would size both from the BIOS memory probe instead of a fixed
	// constant, but this core has no BIOS to probe at test time.
	KernelPoolBase  = 0x100000
	KernelPoolPages = (16 * 1024 * 1024) / PageSize
	UserPoolBase    = KernelPoolBase + KernelPoolPages*PageSize
	UserPoolPages   = (32 * 1024 * 1024) / PageSize
)

// BlockSizeClasses enumerates the seven heap size classes, smallest first.
var BlockSizeClasses = [7]int{16, 32, 64, 128, 256, 512, 1024}
