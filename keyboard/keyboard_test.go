package keyboard

import (
	"testing"

	"kernel32/archx86"
)

func withKeyDown(t *testing.T, scancode uint8) {
	t.Helper()
	restoreCPU := archx86.UseSimulatedCPU(false) // interrupt handlers run with IF already clear
	t.Cleanup(restoreCPU)
	restorePorts := archx86.UseSimulatedPorts(&archx86.SimulatedPorts{
		ReadB: func(port uint16) uint8 {
			if port == dataPort {
				return scancode
			}
			return 0
		},
	})
	t.Cleanup(restorePorts)
}

func TestHandleIRQ1ForwardsTranslatedCharacter(t *testing.T) {
	withKeyDown(t, 0x1E) // 'a' make code, arbitrary for this fake table
	SetTranslator(func(sc uint8) (byte, bool) {
		if sc == 0x1E {
			return 'a', true
		}
		return 0, false
	})
	defer SetTranslator(nil)

	handleIRQ1(nil)

	if got := Getchar(); got != 'a' {
		t.Fatalf("Getchar() = %q, want 'a'", got)
	}
}

func TestHandleIRQ1DropsKeyUpEvents(t *testing.T) {
	withKeyDown(t, 0x9E) // 'a' break code
	called := 0
	SetTranslator(func(sc uint8) (byte, bool) {
		called++
		return 0, false
	})
	defer SetTranslator(nil)

	handleIRQ1(nil)

	if called != 1 {
		t.Fatalf("translator called %d times, want 1", called)
	}
	if !queue.Empty() {
		t.Fatal("a key-up scancode should not enqueue anything")
	}
}
