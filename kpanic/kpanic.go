// Package kpanic implements the kernel's one unrecoverable-error path: print
// a banner naming where the invariant broke, then halt with interrupts off.
// Grounded on kernel.go's panic helper, which does the same file/line/
// message banner over UART before spinning.
package kpanic

import (
	"kernel32/archx86"
	"kernel32/console"
)

// Panic prints file, line, the calling function's name, and msg, then spins
// forever with interrupts disabled. It never returns — callers should treat
// it like a call to a function of type func() that diverges, the same way
// panic() is used elsewhere as a statement, not an expression.
func Panic(file string, line int, fn string, msg string) {
	archx86.Disable()

	console.PutStr("PANIC at ")
	console.PutStr(file)
	console.PutStr(":")
	console.PutInt(line)
	console.PutStr(" in ")
	console.PutStr(fn)
	console.PutStr("(): ")
	console.PutStr(msg)
	console.PutStr("\n")

	for {
		archx86.Disable()
	}
}
