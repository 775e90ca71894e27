package archx86

import (
	"reflect"
	_ "unsafe" // for go:linkname
)

// FuncAddr returns fn's code pointer, for seeding a freshly created task's
// kernel stack so the first switch into it resumes at fn rather than at a
// return address pushed by a real call.
func FuncAddr(fn func(uintptr)) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

//go:linkname enterUserMode enterUserMode
//go:nosplit
func enterUserMode(frameSP uint32)

var enterUserModeFn = enterUserMode

// EnterUserMode points ESP at frameSP — a stack already laid out exactly
// like an irq.Frame, built by the caller — and jumps into the common
// interrupt-exit stub, which pops it back off and irets into ring 3. It
// never returns: the task continues at whatever EIP the frame named, in
// user mode, until the next trap brings it back through that same stub.
// Grounded on the same go:linkname split SwitchStacks uses between
// Go-level setup and the hand-written assembly that actually touches the
// privileged state; kept decoupled from irq.Frame's Go type (archx86 sits
// below irq in the import graph) by taking the frame as a raw stack
// address instead.
func EnterUserMode(frameSP uint32) { enterUserModeFn(frameSP) }

// UseSimulatedUserEntry overrides EnterUserMode for tests exercising
// start_process's frame construction without actually dropping to ring 3:
// the fake just records the stack address it was handed.
func UseSimulatedUserEntry(fn func(frameSP uint32)) (restore func()) {
	orig := enterUserModeFn
	enterUserModeFn = fn
	return func() { enterUserModeFn = orig }
}
