package bitmap

import "testing"

func TestScanAcrossIsolatedGap(t *testing.T) {
	// 8 bytes, bits {0,1,2,4,5} set.
	// With those bits set, bit 3 is an isolated one-bit gap and the first
	// run of 3+ consecutive clear bits starts at bit 6 (bits 6,7,8 clear);
	// scan(4) lands in the same run, well before bits 8..11.
	b := New(64)
	for _, idx := range []int{0, 1, 2, 4, 5} {
		b.Set(idx, 1)
	}

	if got := b.Scan(3); got != 6 {
		t.Errorf("Scan(3) = %d, want 6", got)
	}
	if got := b.Scan(4); got != 6 {
		t.Errorf("Scan(4) = %d, want 6", got)
	}
}

func TestScanNoRoom(t *testing.T) {
	b := New(16)
	b.Init(false) // all set
	if got := b.Scan(1); got != -1 {
		t.Errorf("Scan(1) on a full bitmap = %d, want -1", got)
	}
}

func TestScanExactFit(t *testing.T) {
	tests := []struct {
		name string
		set  []int
		n    int
		want int
	}{
		{name: "empty bitmap n=1", set: nil, n: 1, want: 0},
		{name: "first bit set, n=1", set: []int{0}, n: 1, want: 1},
		{name: "whole first byte set", set: []int{0, 1, 2, 3, 4, 5, 6, 7}, n: 1, want: 8},
		{name: "run spans byte boundary", set: []int{0, 1, 2, 3, 4, 5}, n: 3, want: 6},
		{name: "n larger than available run returns -1", set: []int{0, 2, 4, 6, 8, 10, 12, 14}, n: 2, want: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(16)
			for _, idx := range tt.set {
				b.Set(idx, 1)
			}
			if got := b.Scan(tt.n); got != tt.want {
				t.Errorf("Scan(%d) = %d, want %d", tt.n, got, tt.want)
			}
		})
	}
}

func TestSetTestRoundTrip(t *testing.T) {
	b := New(32)
	b.Set(17, 1)
	if !b.Test(17) {
		t.Fatal("bit 17 should be set")
	}
	b.Set(17, 0)
	if b.Test(17) {
		t.Fatal("bit 17 should be clear after Set(17, 0)")
	}
}

func TestInitFillModes(t *testing.T) {
	b := New(9)
	b.Init(false)
	for i := 0; i < 9; i++ {
		if !b.Test(i) {
			t.Fatalf("bit %d should be set after Init(false)", i)
		}
	}
	b.Init(true)
	for i := 0; i < 9; i++ {
		if b.Test(i) {
			t.Fatalf("bit %d should be clear after Init(true)", i)
		}
	}
}
