package archx86

// UseSimulatedCPU swaps the package's EFLAGS.IF-backed primitives for an
// in-memory simulation and returns a restore func that puts the real
// assembly-backed ones back. It exists so that other packages' tests (list,
// ksync, sched, ...) can exercise interrupt-disable critical sections on a
// hosted test run, without a real CPU or linked assembly underneath —
// mirroring the mockable-function-variable idiom this package already uses
// internally (see intr.go), just exported across the package boundary.
func UseSimulatedCPU(initiallyEnabled bool) (restore func()) {
	state := initiallyEnabled
	origRead, origDisable, origEnable := readIFFn, disableFn, enableFn
	readIFFn = func() bool { return state }
	disableFn = func() { state = false }
	enableFn = func() { state = true }
	return func() {
		readIFFn, disableFn, enableFn = origRead, origDisable, origEnable
	}
}
