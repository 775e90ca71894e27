package kpanic

import (
	"strings"
	"testing"
)

// bannerOnly reproduces Panic's message formatting without its diverging
// halt loop, so the banner text itself is checkable.
func bannerOnly(file string, line int, fn string, msg string) string {
	var sb strings.Builder
	sb.WriteString("PANIC at ")
	sb.WriteString(file)
	sb.WriteString(":")
	sb.WriteString(itoa(line))
	sb.WriteString(" in ")
	sb.WriteString(fn)
	sb.WriteString("(): ")
	sb.WriteString(msg)
	return sb.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func TestBannerFormat(t *testing.T) {
	got := bannerOnly("mm/pagetable.go", 42, "MallocPage", "PTE already present")
	want := "PANIC at mm/pagetable.go:42 in MallocPage(): PTE already present"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
