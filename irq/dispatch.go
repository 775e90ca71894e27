package irq

import (
	"kernel32/archx86"
	"kernel32/console"
)

var handlers [NumVectors]Handler

// Register installs fn as the handler for vector, replacing whatever was
// there before. There is no chaining: the previous handler, if any, is
// simply discarded, matching the one-slot-per-vector model.
func Register(vector int, fn Handler) {
	handlers[vector] = fn
}

var exceptionNames = map[uint32]string{
	0x00: "#DE Divide Error",
	0x01: "#DB Debug",
	0x02: "NMI",
	0x03: "#BP Breakpoint",
	0x04: "#OF Overflow",
	0x05: "#BR Bound Range Exceeded",
	0x06: "#UD Invalid Opcode",
	0x07: "#NM Device Not Available",
	0x08: "#DF Double Fault",
	0x0A: "#TS Invalid TSS",
	0x0B: "#NP Segment Not Present",
	0x0C: "#SS Stack-Segment Fault",
	0x0D: "#GP General Protection Fault",
	0x0E: "#PF Page-Fault Exception",
	0x10: "#MF x87 Floating-Point Exception",
	0x11: "#AC Alignment Check",
	0x12: "#MC Machine Check",
	0x13: "#XM SIMD Floating-Point Exception",
}

// Dispatch is called by the common assembly stub for every vector. It is
// go:nosplit because it runs on the interrupted task's kernel stack with
// interrupts disabled and must not trigger a stack-growth check.
//
//go:nosplit
func Dispatch(f *Frame) {
	v := f.VectorNum

	switch {
	case v < 0x20:
		dispatchException(f)
	default:
		dispatchIRQ(f)
	}
}

func dispatchException(f *Frame) {
	if h := handlers[f.VectorNum]; h != nil {
		h(f)
		return
	}
	printExceptionBanner(f)
	for {
		// No recovery path: spin with interrupts off (the caller entered
		// here via a CPU trap, which left IF however the exception dictates;
		// a belt-and-suspenders disable keeps the halt actually silent).
		archx86.Disable()
	}
}

func printExceptionBanner(f *Frame) {
	name, known := exceptionNames[f.VectorNum]
	if !known {
		name = "Unhandled Exception"
	}
	console.PutStr(name)
	console.PutStr("\n")
	if f.VectorNum == 0x0E {
		console.PutStr("page fault addr is ")
		console.PutHex32(archx86.ReadCR2())
		console.PutStr("\n")
	}
	console.PutStr("EIP=")
	console.PutHex32(f.EIP)
	console.PutStr(" error=")
	console.PutHex32(f.ErrorCode)
	console.PutStr("\nSystem halted\n")
}

func dispatchIRQ(f *Frame) {
	irqLine := int(f.VectorNum - VectorBase)

	if isSpurious(irqLine) {
		return
	}

	if h := handlers[f.VectorNum]; h != nil {
		h(f)
	}
	sendEOI(irqLine)
}
