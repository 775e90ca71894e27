// Package console is an external collaborator kept deliberately minimal —
// a named interface of put_char, put_str, put_int, set_cursor and nothing
// more. The real text-mode/VGA driver is deliberately not implemented
// here; this package provides just enough of a backend — and a mutex so
// concurrent callers don't interleave characters — for the rest
// of the kernel (klog, kpanic, the exception banner) to depend on a stable
// surface.
//
// Grounded on src/go/mazarin/uart_qemu.go's uartPutc/uartPuts/uartPutUint32,
// which is exactly this minimal a surface over a different piece of
// hardware (PL011 UART instead of VGA text memory).
package console

import "kernel32/ksync"

// Writer is the minimal surface a concrete console backend must implement.
// Production code wires this to VGA text-mode memory + the CRTC cursor
// ports; that wiring is out of scope here.
type Writer interface {
	PutChar(c byte)
	SetCursor(row, col int)
}

var (
	backend Writer
	lock    = ksync.NewMutex()
)

// SetBackend installs the concrete console implementation. Called once
// during early boot, before any other subsystem logs anything.
func SetBackend(w Writer) {
	backend = w
}

// PutChar writes a single character, holding the console mutex so output
// from different tasks never interleaves character-wise.
func PutChar(c byte) {
	if backend == nil {
		return
	}
	lock.Acquire()
	defer lock.Release()
	backend.PutChar(c)
}

// PutStr writes every byte of s in order under one mutex acquisition, so a
// whole message stays contiguous even if another task is also logging.
func PutStr(s string) {
	if backend == nil {
		return
	}
	lock.Acquire()
	defer lock.Release()
	for i := 0; i < len(s); i++ {
		backend.PutChar(s[i])
	}
}

// PutInt formats n in decimal and writes it, matching put_int's role as a
// formatter-free numeric output primitive (the kernel otherwise excludes the general
// printf-family formatter; this is the one numeric primitive the kernel
// itself is allowed, same as kernel.go's own hand-rolled uitoa).
func PutInt(n int) {
	PutStr(itoa(n))
}

// SetCursor positions the text cursor, used by the exception banner to put
// the banner at a known screen location.
func SetCursor(row, col int) {
	if backend == nil {
		return
	}
	lock.Acquire()
	defer lock.Release()
	backend.SetCursor(row, col)
}

// itoa is a hand-rolled decimal formatter — no fmt in the kernel-facing
// packages, matching src/go/mazarin/kernel.go's own uitoa.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// PutHex32 writes n as an 8-digit lowercase hex string (used by the page
// fault banner for CR2).
func PutHex32(n uint32) {
	PutStr(hex32(n))
}

func hex32(n uint32) string {
	const digits = "0123456789abcdef"
	var buf [10]byte
	buf[0] = '0'
	buf[1] = 'x'
	for i := 0; i < 8; i++ {
		shift := uint(28 - i*4)
		buf[2+i] = digits[(n>>shift)&0xF]
	}
	return string(buf[:])
}
