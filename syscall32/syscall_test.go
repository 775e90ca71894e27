package syscall32

import (
	"testing"

	"kernel32/irq"
	"kernel32/sched"
)

func newTestPCB() *sched.PCB {
	return &sched.PCB{PID: 7, Name: "test"}
}

func TestDispatchGetPid(t *testing.T) {
	pcb := newTestPCB()
	f := &irq.Frame{EAX: uint32(SysGetPid)}
	table[SysGetPid](pcb, f)
	if f.EAX != 7 {
		t.Fatalf("getpid returned %d, want 7", f.EAX)
	}
}

func TestAllocFDSkipsReservedSlotsAndFillsInOrder(t *testing.T) {
	pcb := newTestPCB()
	first, ok := allocFD(pcb, 42)
	if !ok || first <= fdStderr {
		t.Fatalf("allocFD returned fd=%d ok=%v, want a slot past the stdio range", first, ok)
	}
	second, ok := allocFD(pcb, 43)
	if !ok || second != first+1 {
		t.Fatalf("allocFD returned fd=%d, want %d", second, first+1)
	}
}

func TestAllocFDFailsWhenTableIsFull(t *testing.T) {
	pcb := newTestPCB()
	for {
		if _, ok := allocFD(pcb, 1); !ok {
			break
		}
	}
	if _, ok := allocFD(pcb, 1); ok {
		t.Fatal("allocFD should fail once every non-reserved slot is taken")
	}
}

func TestSysCloseRejectsReservedAndUnopenedSlots(t *testing.T) {
	pcb := newTestPCB()
	f := &irq.Frame{EBX: uint32(fdStdout)}
	sysClose(pcb, f)
	if int32(f.EAX) != errBadFD {
		t.Fatalf("closing a reserved stdio fd = %d, want errBadFD", int32(f.EAX))
	}

	f = &irq.Frame{EBX: 5}
	sysClose(pcb, f)
	if int32(f.EAX) != errBadFD {
		t.Fatalf("closing an unopened fd = %d, want errBadFD", int32(f.EAX))
	}
}

func TestSysOpenThenCloseRoundTrips(t *testing.T) {
	pcb := newTestPCB()
	f := &irq.Frame{ECX: 99}
	sysOpen(pcb, f)
	fd := int32(f.EAX)
	if fd <= int32(fdStderr) {
		t.Fatalf("sysOpen returned fd=%d, want a slot past the stdio range", fd)
	}

	f2 := &irq.Frame{EBX: uint32(fd)}
	sysClose(pcb, f2)
	if int32(f2.EAX) != errOK {
		t.Fatalf("sysClose on a freshly opened fd = %d, want errOK", int32(f2.EAX))
	}
	if pcb.FDTable[fd].Open {
		t.Fatal("fd should be marked closed after sysClose")
	}
}

func TestDispatchUnknownSyscallReturnsENOSYS(t *testing.T) {
	pcb := newTestPCB()
	_ = pcb
	f := &irq.Frame{EAX: uint32(NumSyscalls + 5)}
	dispatch(f)
	if int32(f.EAX) != errNoSys {
		t.Fatalf("dispatch of an out-of-range syscall number = %d, want errNoSys", int32(f.EAX))
	}
}
