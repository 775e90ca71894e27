// Package timer programs the PIT for a 100 Hz tick, drives the scheduler's
// time-slice accounting from IRQ0, and provides msleep. Grounded on
// timer_qemu.go (ARM64 generic timer programming + busy-wait nap),
// adapted from a memory-mapped comparator register to 8253 PIT PIO.
package timer

import (
	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/irq"
	"kernel32/sched"
)

const (
	vector  = irq.VectorBase // IRQ0
	irqLine = 0

	pitChannel0 = 0x40
	pitCommand  = 0x43

	modeRateGenerator = 0x34 // channel 0, lobyte/hibyte, mode 2
)

var ticks uint64

// divisor is the PIT's 16-bit reload value for bootconfig.TimerHz.
func divisor() uint16 {
	return uint16(bootconfig.PITInputClockHz / bootconfig.TimerHz)
}

// Install programs the PIT and registers the tick handler on IRQ0.
func Install() {
	d := divisor()
	archx86.OutB(pitCommand, modeRateGenerator)
	archx86.OutB(pitChannel0, uint8(d))
	archx86.OutB(pitChannel0, uint8(d>>8))

	irq.Register(vector, handleTick)
	irq.Unmask(irqLine)
}

func handleTick(f *irq.Frame) {
	ticks++
	sched.Tick()
}

// Ticks returns the number of timer interrupts serviced since Install.
func Ticks() uint64 {
	return ticks
}

// sleepTicksFor converts a millisecond duration to the number of 10 ms
// ticks to wait, rounding up so a 1 ms request still waits a full tick.
func sleepTicksFor(ms int) uint64 {
	return uint64((ms + bootconfig.MsPerTick - 1) / bootconfig.MsPerTick)
}

// MSleep blocks the calling task for at least ms milliseconds by
// repeatedly yielding until enough ticks have elapsed. It does not disable
// interrupts or block on a semaphore — it is a cooperative busy-wait, the
// same tradeoff timer_qemu.go's own nap makes.
func MSleep(ms int) {
	want := sleepTicksFor(ms)
	start := ticks
	for ticks-start < want {
		sched.ThreadYield()
	}
}
