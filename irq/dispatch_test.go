package irq

import (
	"strings"
	"testing"

	"kernel32/archx86"
	"kernel32/console"
)

type captureBackend struct {
	sb strings.Builder
}

func (c *captureBackend) PutChar(b byte)        { c.sb.WriteByte(b) }
func (c *captureBackend) SetCursor(row, col int) {}

// withSimulatedPIC stubs out the 8259's ports so Dispatch's EOI and
// spurious-IRQ checks don't touch real hardware.
func withSimulatedPIC(t *testing.T) {
	t.Helper()
	restore := archx86.UseSimulatedPorts(&archx86.SimulatedPorts{
		ReadB:  func(port uint16) uint8 { return 0xFF }, // ISR: every line "in service"
		WriteB: func(port uint16, val uint8) {},
	})
	t.Cleanup(restore)
}

func TestRegisterDispatchesToInstalledHandler(t *testing.T) {
	withSimulatedPIC(t)
	called := false
	Register(0x20, func(f *Frame) { called = true })
	defer Register(0x20, nil)

	Dispatch(&Frame{VectorNum: 0x20})
	if !called {
		t.Fatal("Dispatch should have invoked the registered handler for vector 0x20")
	}
}

func TestRegisterReplacesWithoutChaining(t *testing.T) {
	withSimulatedPIC(t)
	firstCalls, secondCalls := 0, 0
	Register(0x21, func(f *Frame) { firstCalls++ })
	Register(0x21, func(f *Frame) { secondCalls++ })
	defer Register(0x21, nil)

	Dispatch(&Frame{VectorNum: 0x21})
	if firstCalls != 0 || secondCalls != 1 {
		t.Fatalf("got firstCalls=%d secondCalls=%d, want 0 and 1 (replace, not chain)", firstCalls, secondCalls)
	}
}

func TestUnregisteredHardwareIRQIsSilentlyIgnored(t *testing.T) {
	// Vector 0x22 (IRQ2, the cascade line) has no handler and isn't
	// spurious-checked; dispatch should simply return rather than panic,
	// after sending EOI on a simulated PIC command port.
	var eoiCount int
	restore := archx86.UseSimulatedPorts(&archx86.SimulatedPorts{
		WriteB: func(port uint16, val uint8) {
			if port == 0x20 && val == 0x20 {
				eoiCount++
			}
		},
		ReadB: func(port uint16) uint8 { return 0 },
	})
	defer restore()

	Dispatch(&Frame{VectorNum: 0x22})
	if eoiCount != 1 {
		t.Fatalf("eoiCount = %d, want exactly one EOI to the master PIC", eoiCount)
	}
}

func TestSpuriousIRQ7IsDroppedWithoutInvokingHandler(t *testing.T) {
	restore := archx86.UseSimulatedPorts(&archx86.SimulatedPorts{
		ReadB:  func(port uint16) uint8 { return 0x00 }, // ISR bit 7 clear: spurious
		WriteB: func(port uint16, val uint8) {},
	})
	defer restore()

	called := false
	Register(0x27, func(f *Frame) { called = true }) // IRQ7
	defer Register(0x27, nil)

	Dispatch(&Frame{VectorNum: 0x27})
	if called {
		t.Fatal("a spurious IRQ7 must not reach the registered handler")
	}
}

func TestExceptionBannerPrintsNameAndFaultAddress(t *testing.T) {
	backend := &captureBackend{}
	console.SetBackend(backend)
	defer console.SetBackend(nil)

	restore := archx86.UseSimulatedFaultAddress(0xDEADBEE0)
	defer restore()

	printExceptionBanner(&Frame{VectorNum: 0x0E, EIP: 0x1000})

	out := backend.sb.String()
	if !strings.Contains(out, "#PF Page-Fault Exception") {
		t.Fatalf("banner missing exception name, got %q", out)
	}
	if !strings.Contains(out, "page fault addr is 0xdeadbee0") {
		t.Fatalf("banner missing CR2, got %q", out)
	}
}
