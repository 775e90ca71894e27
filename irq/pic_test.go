package irq

import (
	"testing"

	"kernel32/archx86"
)

type fakePIC struct {
	masterData, slaveData uint8
	writes                []struct{ port uint16; val uint8 }
}

func newFakePIC() *fakePIC {
	return &fakePIC{masterData: 0xFF, slaveData: 0xFF}
}

func (f *fakePIC) install(t *testing.T) {
	t.Helper()
	restore := archx86.UseSimulatedPorts(&archx86.SimulatedPorts{
		ReadB: func(port uint16) uint8 {
			switch port {
			case masterData:
				return f.masterData
			case slaveData:
				return f.slaveData
			default:
				return 0
			}
		},
		WriteB: func(port uint16, val uint8) {
			f.writes = append(f.writes, struct {
				port uint16
				val  uint8
			}{port, val})
			switch port {
			case masterData:
				f.masterData = val
			case slaveData:
				f.slaveData = val
			}
		},
	})
	t.Cleanup(restore)
}

func TestRemapMasksEverythingByDefault(t *testing.T) {
	pic := newFakePIC()
	pic.install(t)

	Remap()

	if pic.masterData != 0xFF || pic.slaveData != 0xFF {
		t.Fatalf("Remap should leave both PICs fully masked, got master=%#x slave=%#x", pic.masterData, pic.slaveData)
	}
}

func TestUnmaskClearsOnlyTheTargetBit(t *testing.T) {
	pic := newFakePIC()
	pic.install(t)

	Unmask(0) // timer, master PIC
	if pic.masterData != 0xFE {
		t.Fatalf("masterData = %#x, want 0xFE after unmasking IRQ0", pic.masterData)
	}

	Unmask(14) // primary IDE, slave PIC bit 6
	if pic.slaveData != 0xBF {
		t.Fatalf("slaveData = %#x, want 0xBF after unmasking IRQ14", pic.slaveData)
	}
}

func TestMaskSetsOnlyTheTargetBit(t *testing.T) {
	pic := newFakePIC()
	pic.masterData = 0x00
	pic.install(t)

	Mask(1) // keyboard
	if pic.masterData != 0x02 {
		t.Fatalf("masterData = %#x, want 0x02 after masking IRQ1", pic.masterData)
	}
}

func TestSendEOISignalsBothPICsForSlaveIRQ(t *testing.T) {
	pic := newFakePIC()
	pic.install(t)

	sendEOI(14) // slave-originated

	var sawMaster, sawSlave bool
	for _, w := range pic.writes {
		if w.port == masterCmd && w.val == eoiCmd {
			sawMaster = true
		}
		if w.port == slaveCmd && w.val == eoiCmd {
			sawSlave = true
		}
	}
	if !sawMaster || !sawSlave {
		t.Fatal("EOI for a slave IRQ must go to both the master and slave PIC")
	}
}

func TestSendEOISignalsOnlyMasterForMasterIRQ(t *testing.T) {
	pic := newFakePIC()
	pic.install(t)

	sendEOI(0) // timer, master-originated

	var sawSlave bool
	for _, w := range pic.writes {
		if w.port == slaveCmd {
			sawSlave = true
		}
	}
	if sawSlave {
		t.Fatal("EOI for a master-only IRQ should not touch the slave PIC")
	}
}
