package syscall32

import (
	"unsafe"

	"kernel32/console"
	"kernel32/keyboard"
	"kernel32/sched"
	"kernel32/userproc"

	"kernel32/irq"
)

// userBytes reinterprets a user-space pointer/length pair as a Go byte
// slice. Safe only because a syscall trap keeps the trapping task's own
// page directory loaded throughout (see sched.activateAddressSpace):
// these addresses are always the current address space's own.
func userBytes(ptr uint32, n uint32) []byte {
	return (*[1 << 30]byte)(unsafe.Pointer(uintptr(ptr)))[:n:n]
}

func sysGetPid(pcb *sched.PCB, f *irq.Frame) {
	f.EAX = uint32(pcb.PID)
}

// sysWrite implements write(fd, buf, count) for the two always-open
// console descriptors; any other fd is out of scope (no filesystem).
func sysWrite(pcb *sched.PCB, f *irq.Frame) {
	fd, buf, count := int(f.EBX), f.ECX, f.EDX
	if fd != fdStdout && fd != fdStderr {
		f.EAX = uint32(int32(errBadFD))
		return
	}
	for _, b := range userBytes(buf, count) {
		console.PutChar(b)
	}
	f.EAX = count
}

// sysRead implements read(fd, buf, count) for stdin only, pulled one
// translated character at a time off the keyboard ioqueue.
func sysRead(pcb *sched.PCB, f *irq.Frame) {
	fd, buf, count := int(f.EBX), f.ECX, f.EDX
	if fd != fdStdin {
		f.EAX = uint32(int32(errBadFD))
		return
	}
	dst := userBytes(buf, count)
	for i := range dst {
		dst[i] = keyboard.Getchar()
	}
	f.EAX = count
}

func sysPutChar(pcb *sched.PCB, f *irq.Frame) {
	console.PutChar(byte(f.EBX))
	f.EAX = errOK
}

// sysClear resets the cursor to the origin. Actually erasing the glyph
// buffer is a console-backend concern, out of scope behind the
// put_char/put_str/put_int/set_cursor interface this kernel depends on.
func sysClear(pcb *sched.PCB, f *irq.Frame) {
	console.SetCursor(0, 0)
	f.EAX = errOK
}

func sysMalloc(pcb *sched.PCB, f *irq.Frame) {
	if pcb.Heap == nil {
		f.EAX = uint32(int32(errNoMem))
		return
	}
	addr, err := pcb.Heap.SysMalloc(int(f.EBX))
	if err != nil {
		f.EAX = uint32(int32(errNoMem))
		return
	}
	f.EAX = uint32(addr)
}

func sysFree(pcb *sched.PCB, f *irq.Frame) {
	if pcb.Heap != nil {
		pcb.Heap.SysFree(uintptr(f.EBX))
	}
	f.EAX = errOK
}

// sysFork's full semantics (address-space duplication, copy-on-write
// pages, parent/child return-value split) are out of scope for the same
// reason the filesystem syscalls below are: demand paging beyond the
// identity/high-half split isn't implemented, and a real fork here would
// need exactly that to avoid copying the entire user address space
// eagerly on every call. The slot and syscall number are real; only the
// duplication algorithm is not implemented.
func sysFork(pcb *sched.PCB, f *irq.Frame) {
	f.EAX = uint32(int32(errNoSys))
}

// sysGetCwd writes the current working directory into the caller's
// buffer. There is no real filesystem backing CWDInode in this module, so
// every task's cwd reads back as "/".
func sysGetCwd(pcb *sched.PCB, f *irq.Frame) {
	const root = "/"
	buf, size := f.EBX, f.ECX
	if size < uint32(len(root)+1) {
		f.EAX = uint32(int32(errInval))
		return
	}
	dst := userBytes(buf, uint32(len(root)+1))
	copy(dst, root)
	dst[len(root)] = 0
	f.EAX = uint32(len(root))
}

// The remaining syscalls operate on a real filesystem, an external
// collaborator this core depends on but does not implement. Their slots
// and numbers are real. sysOpen and sysClose are implemented because they
// only need the FD table itself, not file content; the other filesystem
// syscalls return ENOSYS.

func sysOpen(pcb *sched.PCB, f *irq.Frame) {
	inode := int(f.ECX) // caller-resolved inode number; path lookup is the external filesystem's job
	fd, ok := allocFD(pcb, inode)
	if !ok {
		f.EAX = uint32(int32(errTooMany))
		return
	}
	f.EAX = uint32(fd)
}

func sysClose(pcb *sched.PCB, f *irq.Frame) {
	fd := int(f.EBX)
	if !fdValid(pcb, fd) || fd <= fdStderr {
		f.EAX = uint32(int32(errBadFD))
		return
	}
	pcb.FDTable[fd] = sched.FD{}
	f.EAX = errOK
}

func sysLseek(pcb *sched.PCB, f *irq.Frame)     { f.EAX = uint32(int32(errNoSys)) }
func sysUnlink(pcb *sched.PCB, f *irq.Frame)    { f.EAX = uint32(int32(errNoSys)) }
func sysMkdir(pcb *sched.PCB, f *irq.Frame)     { f.EAX = uint32(int32(errNoSys)) }
func sysOpenDir(pcb *sched.PCB, f *irq.Frame)   { f.EAX = uint32(int32(errNoSys)) }
func sysCloseDir(pcb *sched.PCB, f *irq.Frame)  { f.EAX = uint32(int32(errNoSys)) }
func sysReadDir(pcb *sched.PCB, f *irq.Frame)   { f.EAX = uint32(int32(errNoSys)) }
func sysRewindDir(pcb *sched.PCB, f *irq.Frame) { f.EAX = uint32(int32(errNoSys)) }
func sysChdir(pcb *sched.PCB, f *irq.Frame)  { f.EAX = uint32(int32(errNoSys)) }
func sysRmdir(pcb *sched.PCB, f *irq.Frame)  { f.EAX = uint32(int32(errNoSys)) }
func sysStat(pcb *sched.PCB, f *irq.Frame)   { f.EAX = uint32(int32(errNoSys)) }

// sysExecv is the one filesystem-adjacent syscall implemented in full: with
// no filesystem to resolve a path against, EBX is taken directly as the
// entry address of a program already resident in memory, and a new ring-3
// task is spawned at it via userproc.ProcessExecute — syscall dispatch
// handing straight off to process creation. Returns the new task's PID,
// or ENOMEM if process creation failed (page directory or address-space
// allocation exhausted a pool).
func sysExecv(pcb *sched.PCB, f *irq.Frame) {
	child, err := userproc.ProcessExecute(f.EBX, "exec")
	if err != nil {
		f.EAX = uint32(int32(errNoMem))
		return
	}
	f.EAX = uint32(child.PID)
}

// sysPs writes a one-line-per-task summary to the console: pid, name, and
// status. There is no process-listing buffer ABI beyond this, so it
// prints directly rather than filling a caller-supplied struct array.
func sysPs(pcb *sched.PCB, f *irq.Frame) {
	for _, t := range sched.AllTasks() {
		console.PutInt(t.PID)
		console.PutStr(" ")
		console.PutStr(t.Name)
		console.PutStr(" ")
		console.PutStr(t.Status.String())
		console.PutStr("\n")
	}
	f.EAX = errOK
}
