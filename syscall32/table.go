// Package syscall32 is the user/kernel boundary: a fixed 32-slot
// syscall-number table, argument marshalling out of the trapped interrupt
// frame, and the per-task file-descriptor table the open/close/read/write
// family operates on.
//
// Grounded on src/mazboot/golang/main/syscall.go's per-syscall function
// naming (SyscallClose, SyscallUnknown, ...) and sentinel -errno return
// convention, the single closest direct analogue in the whole pack — that
// file is a 752-line dispatcher for a different (Linux-compatible) syscall
// surface; this one narrows it to a fixed 23-name set.
package syscall32

import (
	"kernel32/irq"
	"kernel32/sched"
)

// Vector is the software-interrupt number user code traps through. It
// reuses the CPU's own 48-entry IDT (see irq.NumVectors) at a vector
// Intel leaves unassigned (0x14-0x1F are reserved-but-unused exception
// slots) rather than standing up a second, larger table just for this one
// entry point.
const Vector = 0x1F

// NumSyscalls is the fixed table size — room to grow beyond the syscalls
// actually registered below.
const NumSyscalls = 32

// Syscall numbers, EAX on entry.
const (
	SysGetPid = iota
	SysWrite
	SysRead
	SysPutChar
	SysClear
	SysMalloc
	SysFree
	SysFork
	SysGetCwd
	SysOpen
	SysClose
	SysLseek
	SysUnlink
	SysMkdir
	SysOpenDir
	SysCloseDir
	SysChdir
	SysRmdir
	SysReadDir
	SysRewindDir
	SysStat
	SysPs
	SysExecv
)

// Errno sentinels returned in f.EAX on failure, per the kernel-wide
// sentinel-return convention (no error wrapping, no errors package). The
// negative ones are int32 variables, not constants, so that converting them
// to the uint32 EAX register yields their two's-complement encoding.
const errOK = 0

var (
	errNoSys   int32 = -38 // ENOSYS
	errBadFD   int32 = -9  // EBADF
	errNoMem   int32 = -12 // ENOMEM
	errTooMany int32 = -24 // EMFILE: fd table full
	errInval   int32 = -22 // EINVAL
)

// Handler services one syscall. f carries the marshalled arguments
// (EBX, ECX, EDX — up to three) and receives the return value written
// back into f.EAX.
type Handler func(pcb *sched.PCB, f *irq.Frame)

var table [NumSyscalls]Handler

func register(num int, h Handler) {
	table[num] = h
}

func init() {
	register(SysGetPid, sysGetPid)
	register(SysWrite, sysWrite)
	register(SysRead, sysRead)
	register(SysPutChar, sysPutChar)
	register(SysClear, sysClear)
	register(SysMalloc, sysMalloc)
	register(SysFree, sysFree)
	register(SysFork, sysFork)
	register(SysGetCwd, sysGetCwd)
	register(SysOpen, sysOpen)
	register(SysClose, sysClose)
	register(SysLseek, sysLseek)
	register(SysUnlink, sysUnlink)
	register(SysMkdir, sysMkdir)
	register(SysOpenDir, sysOpenDir)
	register(SysCloseDir, sysCloseDir)
	register(SysReadDir, sysReadDir)
	register(SysRewindDir, sysRewindDir)
	register(SysChdir, sysChdir)
	register(SysRmdir, sysRmdir)
	register(SysStat, sysStat)
	register(SysPs, sysPs)
	register(SysExecv, sysExecv)
}

// Install registers the common dispatch entry point at Vector. Called once
// during bring-up, after irq.Install and sched.Init.
func Install() {
	irq.Register(Vector, dispatch)
}

// dispatch is the vector handler: it looks up the current task, indexes
// the table by f.EAX, and runs the handler (or the ENOSYS fallback for an
// unregistered or out-of-range slot).
func dispatch(f *irq.Frame) {
	pcb := sched.Current()
	num := int(int32(f.EAX))
	if num < 0 || num >= NumSyscalls || table[num] == nil {
		f.EAX = uint32(errNoSys)
		return
	}
	table[num](pcb, f)
}
