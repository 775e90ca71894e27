package irq

import "kernel32/archx86"

// 8259 PIC ports.
const (
	masterCmd  = 0x20
	masterData = 0x21
	slaveCmd   = 0xA0
	slaveData  = 0xA1

	icw1Init = 0x11 // edge-triggered, cascade mode, ICW4 to follow
	icw4_8086 = 0x01

	eoiCmd = 0x20
)

// VectorBase is where the remapped master PIC's IRQ0 lands; IRQ8 (slave's
// IRQ0) lands at VectorBase+8.
const VectorBase = 0x20

// Remap reprograms both 8259 PICs so IRQ0-15 land on vectors
// VectorBase..VectorBase+15 instead of colliding with the CPU's own
// exception vectors 0x00-0x0F (the BIOS default). Masks everything to start;
// callers unmask individual lines as they install handlers for them.
func Remap() {
	// ICW1: start initialization, expect ICW4.
	archx86.OutB(masterCmd, icw1Init)
	archx86.IOWait()
	archx86.OutB(slaveCmd, icw1Init)
	archx86.IOWait()

	// ICW2: vector offsets.
	archx86.OutB(masterData, VectorBase)
	archx86.IOWait()
	archx86.OutB(slaveData, VectorBase+8)
	archx86.IOWait()

	// ICW3: cascade wiring — master has a slave on IRQ2, slave's cascade ID.
	archx86.OutB(masterData, 1<<2)
	archx86.IOWait()
	archx86.OutB(slaveData, 2)
	archx86.IOWait()

	// ICW4: 8086 mode.
	archx86.OutB(masterData, icw4_8086)
	archx86.IOWait()
	archx86.OutB(slaveData, icw4_8086)
	archx86.IOWait()

	// Mask everything; individual drivers unmask their own line.
	archx86.OutB(masterData, 0xFF)
	archx86.OutB(slaveData, 0xFF)
}

// Unmask enables delivery of the given IRQ line (0-15).
func Unmask(irqLine int) {
	if irqLine < 8 {
		port := uint16(masterData)
		mask := archx86.InB(port)
		archx86.OutB(port, mask&^(1<<uint(irqLine)))
		return
	}
	port := uint16(slaveData)
	mask := archx86.InB(port)
	archx86.OutB(port, mask&^(1<<uint(irqLine-8)))
}

// Mask disables delivery of the given IRQ line.
func Mask(irqLine int) {
	if irqLine < 8 {
		port := uint16(masterData)
		mask := archx86.InB(port)
		archx86.OutB(port, mask|(1<<uint(irqLine)))
		return
	}
	port := uint16(slaveData)
	mask := archx86.InB(port)
	archx86.OutB(port, mask|(1<<uint(irqLine-8)))
}

// sendEOI acknowledges the interrupt to the PIC(s) so further IRQs can be
// delivered. A slave-originated IRQ needs EOI sent to both PICs, since the
// master is also holding the cascade line pending.
func sendEOI(irqLine int) {
	if irqLine >= 8 {
		archx86.OutB(slaveCmd, eoiCmd)
	}
	archx86.OutB(masterCmd, eoiCmd)
}

// isrRegister reads the In-Service Register of the given PIC, used to tell
// a genuine IRQ7/IRQ15 apart from a spurious one (the 8259 raises the vector
// but never sets the ISR bit for a spurious interrupt).
func isrRegister(slave bool) uint8 {
	cmdPort := uint16(masterCmd)
	if slave {
		cmdPort = slaveCmd
	}
	const readISR = 0x0B
	archx86.OutB(cmdPort, readISR)
	return archx86.InB(cmdPort)
}

func isSpurious(irqLine int) bool {
	switch irqLine {
	case 7:
		return isrRegister(false)&(1<<7) == 0
	case 15:
		return isrRegister(true)&(1<<7) == 0
	default:
		return false
	}
}
