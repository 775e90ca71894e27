// Package ata is the two-channel ATA/IDE PIO block driver: channel
// locking, LBA28 read/write, IRQ-driven completion via a semaphore, disk
// identification, and MBR/EBR partition-table scanning.
//
// Grounded on src/mazboot/golang/main/sdhci.go (register-offset constant
// tables and present-state polling, adapted from SDHCI's memory-mapped
// registers to 8-bit PIO ports) and virtqueue.go (one in-flight request per
// channel, serialized by a lock, completion signaled back to the waiter).
package ata

import (
	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/irq"
	"kernel32/kpanic"
	"kernel32/ksync"
	"kernel32/timer"
)

// Register offsets from a channel's base port.
const (
	regData       = 0
	regError      = 1 // read
	regFeatures   = 1 // write
	regSectorCnt  = 2
	regLBALow     = 3
	regLBAMid     = 4
	regLBAHigh    = 5
	regDriveHead  = 6
	regStatus     = 7 // read
	regCommand    = 7 // write
)

// Status register bits.
const (
	statusERR = 1 << 0
	statusDRQ = 1 << 3
	statusDF  = 1 << 5
	statusBSY = 1 << 7
)

// Commands.
const (
	cmdRead     = 0x20
	cmdWrite    = 0x30
	cmdIdentify = 0xEC
)

// Channel is one of the two ATA channels: its own port base, IRQ vector,
// serializing mutex, the "am I waiting on this IRQ" flag, and the
// completion semaphore the IRQ handler signals.
type Channel struct {
	Name   string
	Base   uint16
	IRQNum int
	Vector int

	mu            *ksync.Mutex
	expectingIntr bool
	diskDone      *ksync.Semaphore

	Disks [2]*Disk
}

// Disk is one device (master or slave) on a Channel.
type Disk struct {
	Name     string // e.g. "sda", used as the partition-name prefix
	Channel  *Channel
	DevIndex int // 0 = master, 1 = slave
	Present  bool
	Sectors  uint32
	Model    string
	Serial   string
}

// NewChannel constructs a channel and its two (initially absent) disks,
// named diskNames[0] (master) and diskNames[1] (slave).
func NewChannel(name string, base uint16, irqNum int, vector int, diskNames [2]string) *Channel {
	c := &Channel{
		Name:     name,
		Base:     base,
		IRQNum:   irqNum,
		Vector:   vector,
		mu:       ksync.NewMutex(),
		diskDone: ksync.NewSemaphore(0),
	}
	c.Disks[0] = &Disk{Name: diskNames[0], Channel: c, DevIndex: 0}
	c.Disks[1] = &Disk{Name: diskNames[1], Channel: c, DevIndex: 1}
	return c
}

// Install registers the channel's IRQ handler and unmasks its line. Called
// once per channel during bring-up.
func (c *Channel) Install() {
	irq.Register(c.Vector, c.handleIRQ)
	irq.Unmask(c.IRQNum)
}

// handleIRQ is the channel's completion interrupt. A spurious interrupt —
// one that arrives while nothing is waiting — is silently dropped; the
// channel mutex outside already serializes real requests so there is
// nothing for the handler itself to protect against.
func (c *Channel) handleIRQ(f *irq.Frame) {
	if !c.expectingIntr {
		return
	}
	c.expectingIntr = false
	c.diskDone.Up()
	archx86.InB(c.Base + regStatus) // acts as EOI to the drive
}

// selectDisk writes the drive/head register: always-one bits, LBA mode,
// the device index, and the top 4 bits of a 28-bit LBA.
func selectDisk(c *Channel, devIndex int, lbaTop4 uint8) {
	archx86.OutB(c.Base+regDriveHead, 0xE0|uint8(devIndex<<4)|(lbaTop4&0x0F))
}

// setupLBA28 programs sector count and the 28-bit LBA across LBA_L/M/H and
// the low nibble of the drive/head register (already selected).
func setupLBA28(c *Channel, sectorCount uint8, lba uint32) {
	archx86.OutB(c.Base+regSectorCnt, sectorCount)
	archx86.OutB(c.Base+regLBALow, uint8(lba))
	archx86.OutB(c.Base+regLBAMid, uint8(lba>>8))
	archx86.OutB(c.Base+regLBAHigh, uint8(lba>>16))
}

// pollReady busy-waits for BSY to clear, napping msleep(10) between checks
// up to the configured timeout. This is the Open-Question fix: the
// original decrement logic undercounted elapsed time against the 30 s cap
// and could spin well past it; here elapsed is accumulated in the same
// units msleep actually waits, so the loop terminates at the real
// deadline. Returns an error on timeout or on BSY clearing without DRQ.
func pollReady(c *Channel) error {
	elapsedMs := 0
	for {
		status := archx86.InB(c.Base + regStatus)
		if status&statusBSY == 0 {
			if status&statusDRQ == 0 || status&(statusERR|statusDF) != 0 {
				return errDRQClear
			}
			return nil
		}
		timer.MSleep(10)
		elapsedMs += 10
		if elapsedMs >= bootconfig.IDEPollTimeoutMs {
			return errTimeout
		}
	}
}

var (
	errDRQClear = &ataError{"ata: BSY cleared without DRQ"}
	errTimeout  = &ataError{"ata: poll timeout"}
)

type ataError struct{ msg string }

func (e *ataError) Error() string { return e.msg }

// panicOnPollFailure turns a pollReady failure into the same unrecoverable
// halt every other subsystem uses for a broken invariant: a drive that
// never becomes ready is not something a caller can sensibly recover from
// mid-transfer.
func panicOnPollFailure(fn string, err error) {
	if err != nil {
		kpanic.Panic("ata/ata.go", 0, fn, err.Error())
	}
}
