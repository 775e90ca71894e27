package mm

import "testing"

func TestVAddrSpaceReserveReleaseRoundTrip(t *testing.T) {
	v := NewVAddrSpace(0x08048000, 16)

	a, ok := v.Reserve(3)
	if !ok || a != 0x08048000 {
		t.Fatalf("Reserve(3) = %#x, ok=%v, want base %#x", a, ok, uint32(0x08048000))
	}

	b, ok := v.Reserve(2)
	if !ok || b != 0x08048000+3*0x1000 {
		t.Fatalf("Reserve(2) = %#x, ok=%v, want %#x", b, ok, uint32(0x08048000+3*0x1000))
	}

	v.Release(a, 3)
	c, ok := v.Reserve(3)
	if !ok || c != a {
		t.Fatalf("Reserve after Release should reuse %#x, got %#x", a, c)
	}
}

func TestVAddrSpaceExhaustionReturnsNotOK(t *testing.T) {
	v := NewVAddrSpace(0x08048000, 4)
	if _, ok := v.Reserve(4); !ok {
		t.Fatal("Reserve(4) on a 4-page space should succeed")
	}
	if _, ok := v.Reserve(1); ok {
		t.Fatal("Reserve(1) on an exhausted space should fail")
	}
}
