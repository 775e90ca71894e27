// Package keyboard wires IRQ1 to the ioqueue that feeds the shell. The
// PS/2 scancode-to-ASCII translation table is an external collaborator
// out of scope here: this package owns only the interrupt handler and the
// queue, and accepts a Translator to turn a raw scancode byte into zero or
// one ASCII bytes.
package keyboard

import (
	"kernel32/archx86"
	"kernel32/irq"
	"kernel32/ksync"
)

const (
	dataPort = 0x60
	irqLine  = 1
	vector   = irq.VectorBase + irqLine
)

// Translator converts a raw scancode into an ASCII byte. ok is false for
// scancodes that don't produce a character on their own (key-up events,
// modifier keys) — the external translation table supplies this.
type Translator func(scancode uint8) (ch byte, ok bool)

var (
	queue     = ksync.NewIOQueue()
	translate Translator
)

// SetTranslator installs the scancode table. Called once during boot.
func SetTranslator(t Translator) {
	translate = t
}

// Install registers the IRQ1 handler and unmasks the line. Call after
// SetTranslator.
func Install() {
	irq.Register(vector, handleIRQ1)
	irq.Unmask(irqLine)
}

func handleIRQ1(f *irq.Frame) {
	scancode := archx86.InB(dataPort)
	if translate == nil {
		return
	}
	ch, ok := translate(scancode)
	if !ok {
		return
	}
	queue.Putchar(ch)
}

// Getchar blocks until a translated character is available, the entry
// point a kernel-mode console-reader task (or syscall 2, `read`, servicing
// stdin) calls.
func Getchar() byte {
	return queue.Getchar()
}
