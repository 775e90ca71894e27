package irq

import (
	"unsafe"

	"kernel32/archx86"
)

// NumVectors is the IDT size spec'd for this kernel: the 20 architectural
// exceptions (0x00-0x13), unused entries up to 0x1F, then the two remapped
// 8259 IRQ banks (0x20-0x2F).
const NumVectors = 48

const (
	gateType32Interrupt = 0x0E // 32-bit interrupt gate
	gatePresent         = 0x80
	dpl0                = 0x00
	dpl3                = 0x60 // allows ring-3 int $0x80-style syscall traps
)

type gateEntry struct {
	offsetLow  uint16
	selector   uint16
	zero       uint8
	typeAttr   uint8
	offsetHigh uint16
}

var table [NumVectors]gateEntry

func buildGate(handlerAddr uint32, selector uint16, typeAttr uint8) gateEntry {
	return gateEntry{
		offsetLow:  uint16(handlerAddr & 0xFFFF),
		selector:   selector,
		zero:       0,
		typeAttr:   typeAttr,
		offsetHigh: uint16(handlerAddr >> 16),
	}
}

// SetGate installs (or replaces) the IDT entry for vector, pointing at the
// given stub address. Replacement is atomic: the 8-byte descriptor is
// written as a single struct assignment, so a concurrent interrupt either
// sees the old gate or the new one, never a torn mix (spec's "no chaining,
// replace atomically" rule for C3 handler registration).
func SetGate(vector int, stubAddr uint32, selector uint16, userCallable bool) {
	dpl := dpl0
	if userCallable {
		dpl = dpl3
	}
	table[vector] = buildGate(stubAddr, selector, gatePresent|gateType32Interrupt|uint8(dpl))
}

// Install loads the IDT register (LIDT) so the CPU starts using `table` for
// every trap and interrupt. Call once during boot after every stub address
// has been registered via SetGate.
func Install() {
	ptr := archx86.IDTPointer{
		Limit: uint16(unsafe.Sizeof(table) - 1),
		Base:  uint32(uintptr(unsafe.Pointer(&table[0]))),
	}
	archx86.LIDT(&ptr)
}
