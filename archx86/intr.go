package archx86

import _ "unsafe" // for go:linkname

// IntrState is the result of testing EFLAGS.IF: whether interrupts are
// currently enabled (On) or disabled (Off) on this CPU.
type IntrState int

const (
	Off IntrState = iota
	On
)

//go:linkname readEFLAGSIF readEFLAGSIF
//go:nosplit
func readEFLAGSIF() bool

//go:linkname cliAsm cliAsm
//go:nosplit
func cliAsm()

//go:linkname stiAsm stiAsm
//go:nosplit
func stiAsm()

// Indirected through function variables, the way gopheros/kernel/mem/vmm
// mocks cpu.ReadCR2 and friends for tests: production code always uses the
// assembly-backed default, but package tests can substitute a fake CPU to
// exercise the save/restore bookkeeping without real hardware underneath.
var (
	readIFFn  = readEFLAGSIF
	disableFn = cliAsm
	enableFn  = stiAsm
)

func stateFromBool(ifFlag bool) IntrState {
	if ifFlag {
		return On
	}
	return Off
}

// Get reads the current interrupt-enable state without changing it.
func Get() IntrState {
	return stateFromBool(readIFFn())
}

// Disable turns interrupts off and returns the state they were in
// beforehand, so the caller can restore it later with Set.
func Disable() IntrState {
	old := Get()
	disableFn()
	return old
}

// Enable turns interrupts on and returns the prior state.
func Enable() IntrState {
	old := Get()
	enableFn()
	return old
}

// Set restores a previously saved interrupt state. This is the canonical
// pattern used pervasively in this kernel for short critical sections:
// old := archx86.Disable(); defer archx86.Set(old).
func Set(old IntrState) {
	if old == On {
		enableFn()
	} else {
		disableFn()
	}
}

// Guard is the RAII-style scoped version of the save/restore pattern:
// construct with NewGuard to disable
// interrupts and capture the prior state, then call Restore (typically via
// defer) to put it back. A panic raised while the guard is held still runs
// Restore because Restore is deferred, matching the requirement that the
// restore happens "or is an explicit terminal panic" — kpanic.Panic never
// returns, so in that path restoring IF is moot; the spin loop runs with
// interrupts off by design.
type Guard struct {
	old     IntrState
	pending bool
}

// NewGuard disables interrupts and returns a Guard that will restore the
// previous state when Restore is called.
func NewGuard() Guard {
	return Guard{old: Disable(), pending: true}
}

// Restore puts interrupts back into the state captured by NewGuard. It is
// idempotent — calling it more than once after the first call is a no-op —
// so callers may `defer g.Restore()` even after an earlier explicit call.
func (g *Guard) Restore() {
	if !g.pending {
		return
	}
	g.pending = false
	Set(g.old)
}

// MustBeDisabled panics if interrupts are currently enabled. Several
// primitives require the caller to have already disabled interrupts
// (ioq_full, ioq_empty, ioq_getchar/putchar, schedule); each calls this at
// entry in place of a silent assumption. Semaphore down/up do not: they
// open their own disable/restore window instead.
func MustBeDisabled(who string) {
	if Get() == On {
		panic(who + ": called with interrupts enabled")
	}
}
