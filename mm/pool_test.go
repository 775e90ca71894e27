package mm

import "testing"

func TestPoolAllocFreeRoundTrip(t *testing.T) {
	p := NewPool("test", 0x400000, 4)

	a, ok := p.AllocPage()
	if !ok {
		t.Fatal("AllocPage should succeed on a fresh 4-page pool")
	}
	if a != 0x400000 {
		t.Fatalf("first AllocPage = %#x, want base address %#x", a, uint32(0x400000))
	}

	b, ok := p.AllocPage()
	if !ok || b != 0x401000 {
		t.Fatalf("second AllocPage = %#x, ok=%v, want %#x", b, ok, uint32(0x401000))
	}

	p.FreePage(a)
	c, ok := p.AllocPage()
	if !ok || c != a {
		t.Fatalf("AllocPage after FreePage should reuse %#x, got %#x", a, c)
	}
}

func TestPoolExhaustionReturnsNotOK(t *testing.T) {
	p := NewPool("tiny", 0x1000, 1)
	if _, ok := p.AllocPage(); !ok {
		t.Fatal("first AllocPage on a 1-page pool should succeed")
	}
	if _, ok := p.AllocPage(); ok {
		t.Fatal("second AllocPage on an exhausted 1-page pool should fail")
	}
}

func TestPoolContains(t *testing.T) {
	p := NewPool("test", 0x400000, 4)
	if !p.Contains(0x400000) || !p.Contains(0x403FFF) {
		t.Fatal("Contains should accept addresses within the pool's range")
	}
	if p.Contains(0x3FFFFF) || p.Contains(0x404000) {
		t.Fatal("Contains should reject addresses outside the pool's range")
	}
}
