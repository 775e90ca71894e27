// Package archx86 is the thin architecture-glue layer: x86 port I/O, the
// EFLAGS.IF save/restore discipline every short critical section in this
// kernel relies on, and the handful of privileged instructions (lidt, ltr,
// invlpg, CR2/CR3 access) that have no portable Go expression.
//
// Every function here is declared with //go:linkname against a symbol an
// assembly stub provides and carries //go:nosplit, matching the pattern
// used throughout src/go/mazarin/kernel.go (mmio_write/mmio_read) and
// src/go/mazarin/exceptions.go (enable_irqs/disable_irqs) for the handful of
// operations Go cannot express directly. As elsewhere in this layout, the
// backing assembly file is not part of this package — it is supplied at
// link time by the boot/runtime glue, which stays out of scope here.
package archx86

import _ "unsafe" // for go:linkname

//go:linkname inb inb
//go:nosplit
func inb(port uint16) uint8

//go:linkname outb outb
//go:nosplit
func outb(port uint16, val uint8)

//go:linkname inw inw
//go:nosplit
func inw(port uint16) uint16

//go:linkname outw outw
//go:nosplit
func outw(port uint16, val uint16)

//go:linkname insw insw
//go:nosplit
func insw(port uint16, buf []uint16)

//go:linkname outsw outsw
//go:nosplit
func outsw(port uint16, buf []uint16)

//go:linkname ioWait ioWait
//go:nosplit
func ioWait()

// Every exported port primitive below goes through a package-level function
// variable rather than calling its linkname stub directly, the same
// indirection intr.go uses for readEFLAGSIF/cliAsm/stiAsm. It costs nothing
// on real hardware (the var is assigned once, at package init, to the real
// stub) and lets UseSimulatedPorts swap in a fake device model for tests
// that would otherwise need to link the absent assembly.
var (
	inbFn   = inb
	outbFn  = outb
	inwFn   = inw
	outwFn  = outw
	inswFn  = insw
	outswFn = outsw
	ioWaitFn = ioWait
)

// InB reads a single byte from the given I/O port.
func InB(port uint16) uint8 { return inbFn(port) }

// OutB writes a single byte to the given I/O port.
func OutB(port uint16, val uint8) { outbFn(port, val) }

// InW reads a 16-bit word from the given I/O port.
func InW(port uint16) uint16 { return inwFn(port) }

// OutW writes a 16-bit word to the given I/O port.
func OutW(port uint16, val uint16) { outwFn(port, val) }

// InsW reads len(buf) 16-bit words from port into buf (the ATA PIO sector
// transfer primitive).
func InsW(port uint16, buf []uint16) { inswFn(port, buf) }

// OutsW writes len(buf) 16-bit words from buf to port.
func OutsW(port uint16, buf []uint16) { outswFn(port, buf) }

// IOWait performs a short, architecturally-meaningless I/O port write (the
// classic "write to port 0x80" trick) to give a slow ISA-era device time to
// latch the previous access.
func IOWait() { ioWaitFn() }

// SimulatedPorts is a fake I/O address space for tests: a handler per port
// number, invoked on every InB/OutB/InW/OutW (InsW/OutsW fan out to the
// per-word handlers). Port-driven packages (irq's PIC code, the ata driver)
// install one of these via UseSimulatedPorts instead of touching real
// hardware.
type SimulatedPorts struct {
	ReadB  func(port uint16) uint8
	WriteB func(port uint16, val uint8)
	ReadW  func(port uint16) uint16
	WriteW func(port uint16, val uint16)
}

// UseSimulatedPorts swaps every port primitive for sp's handlers until the
// returned restore func is called.
func UseSimulatedPorts(sp *SimulatedPorts) (restore func()) {
	origB, origOutB := inbFn, outbFn
	origW, origOutW := inwFn, outwFn
	origInsW, origOutsW := inswFn, outswFn
	origWait := ioWaitFn

	if sp.ReadB != nil {
		inbFn = sp.ReadB
	}
	if sp.WriteB != nil {
		outbFn = sp.WriteB
	}
	if sp.ReadW != nil {
		inwFn = sp.ReadW
	}
	if sp.WriteW != nil {
		outwFn = sp.WriteW
	}
	inswFn = func(port uint16, buf []uint16) {
		for i := range buf {
			buf[i] = inwFn(port)
		}
	}
	outswFn = func(port uint16, buf []uint16) {
		for _, w := range buf {
			outwFn(port, w)
		}
	}
	ioWaitFn = func() {}

	return func() {
		inbFn, outbFn = origB, origOutB
		inwFn, outwFn = origW, origOutW
		inswFn, outswFn = origInsW, origOutsW
		ioWaitFn = origWait
	}
}
