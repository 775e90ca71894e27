package ata

import "kernel32/bootconfig"

// Partition describes one entry discovered by PartitionScan.
type Partition struct {
	Name        string
	StartLBA    uint32
	SectorCount uint32
	Type        uint8
	Logical     bool
}

const extendedContainerType = 0x05

type mbrEntry struct {
	typ         uint8
	startLBA    uint32
	sectorCount uint32
}

// parseMBREntries reads the 4 partition-table entries out of a 512-byte
// boot sector, starting at the standard 0x1BE offset, 16 bytes apiece.
func parseMBREntries(sector []byte) [4]mbrEntry {
	var out [4]mbrEntry
	for i := 0; i < 4; i++ {
		base := 0x1BE + i*16
		e := sector[base : base+16]
		out[i] = mbrEntry{
			typ:         e[4],
			startLBA:    le32(e[8:12]),
			sectorCount: le32(e[12:16]),
		}
	}
	return out
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// scanState accumulates partitions across one disk's whole MBR/EBR chain.
// The naming counters are legitimately shared across the whole scan (the
// first four top-level entries are primaries, the rest logical, per disk);
// extLBABase is NOT shared — it is threaded through each recursive call as
// a parameter, the fix for the original bug where a package-level
// ext_lba_base let sibling extended chains on the same disk clobber each
// other's base LBA.
type scanState struct {
	disk       *Disk
	primaries  int
	logicals   int
	partitions []Partition
}

// PartitionScan reads disk's boot sector and walks its MBR, recursing into
// any extended (0x05) container entries to collect logical partitions.
// Capped at 4 primaries + 8 logicals per spec.
func PartitionScan(disk *Disk) ([]Partition, error) {
	s := &scanState{disk: disk}
	if err := s.scan(0, 0, true); err != nil {
		return nil, err
	}
	return s.partitions, nil
}

func (s *scanState) scan(lba uint32, extLBABase uint32, topLevel bool) error {
	sector := make([]uint16, bootconfig.SectorSize/2)
	if err := s.disk.ReadSectors(lba, 1, sector); err != nil {
		return err
	}
	bytes := wordsToBytes(sector)
	entries := parseMBREntries(bytes)

	for _, e := range entries {
		if e.typ == 0 {
			continue
		}
		if e.typ == extendedContainerType {
			childBase := extLBABase
			absoluteLBA := extLBABase + e.startLBA
			if topLevel {
				// The first extended entry's startLBA is an absolute
				// address and becomes the base every sibling in this
				// chain is relative to.
				childBase = e.startLBA
				absoluteLBA = e.startLBA
			}
			if err := s.scan(absoluteLBA, childBase, false); err != nil {
				return err
			}
			continue
		}

		start := e.startLBA
		if !topLevel {
			start = extLBABase + e.startLBA
		}
		name, ok := s.nextName(topLevel)
		if !ok {
			continue // capped: dropped, not an error
		}
		s.partitions = append(s.partitions, Partition{
			Name:        name,
			StartLBA:    start,
			SectorCount: e.sectorCount,
			Type:        e.typ,
			Logical:     !topLevel,
		})
	}
	return nil
}

// nextName assigns "sdX1".."sdX4" to the first four top-level entries and
// "sdX5".."sdX12" to everything after, capped at 8 logicals total.
func (s *scanState) nextName(topLevel bool) (string, bool) {
	if topLevel && s.primaries < 4 {
		s.primaries++
		return s.disk.Name + digit(s.primaries), true
	}
	if s.logicals < 8 {
		s.logicals++
		return s.disk.Name + digit(4+s.logicals), true
	}
	return "", false
}

func digit(n int) string {
	if n < 10 {
		return string(rune('0' + n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}
