// Package klog is a minimal leveled logger over console, collapsing
// kernel.go's inline uartPuts narration (scattered through it as plain
// "stage N done" strings) into three named levels.
package klog

import (
	"kernel32/console"
	"kernel32/kpanic"
)

// Info logs an informational line: two strings concatenated, no formatter —
// callers that need a number use console.PutInt/PutHex32 style helpers
// themselves and pass the result in, matching the no-printf constraint.
func Info(msg string) {
	console.PutStr("[info] ")
	console.PutStr(msg)
	console.PutStr("\n")
}

// Warn logs a recoverable anomaly.
func Warn(msg string) {
	console.PutStr("[warn] ")
	console.PutStr(msg)
	console.PutStr("\n")
}

// Fatal logs msg and then panics through kpanic — for ambient-layer callers
// that have detected an invariant violation but aren't themselves the
// subsystem that owns the kpanic.Panic(file, line, fn, msg) call site.
func Fatal(fn string, msg string) {
	console.PutStr("[fatal] ")
	console.PutStr(msg)
	console.PutStr("\n")
	kpanic.Panic("klog", 0, fn, msg)
}
