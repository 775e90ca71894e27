package ata

import (
	"kernel32/archx86"
	"kernel32/bootconfig"
)

// maxChunkSectors is the largest sector count a single LBA28 command can
// carry; 0 in the sector-count register means 256.
const maxChunkSectors = 256

var errLBAOutOfRange = &ataError{"ata: LBA range exceeds the 80 MiB safety bound"}

// checkLBABound refuses any request touching an LBA beyond MaxLBA — the
// driver's deliberate ceiling, independent of whatever the drive itself
// reports.
func checkLBABound(lba uint32, count uint32) error {
	if count == 0 {
		return nil
	}
	last := lba + count - 1
	if last > bootconfig.MaxLBA {
		return errLBAOutOfRange
	}
	return nil
}

// ReadSectors reads count contiguous sectors starting at lba into buf
// (len(buf) must be count*256, one uint16 per word of every 512-byte
// sector), chunking into pieces of at most 256 sectors apiece.
func (d *Disk) ReadSectors(lba uint32, count uint32, buf []uint16) error {
	if err := checkLBABound(lba, count); err != nil {
		return err
	}
	d.Channel.mu.Acquire()
	defer d.Channel.mu.Release()

	wordsPerSector := bootconfig.SectorSize / 2
	offset := uint32(0)
	for offset < count {
		chunk := count - offset
		if chunk > maxChunkSectors {
			chunk = maxChunkSectors
		}
		if err := d.Channel.readChunk(d.DevIndex, lba+offset, chunk, buf[offset*uint32(wordsPerSector):]); err != nil {
			return err
		}
		offset += chunk
	}
	return nil
}

// readChunk issues one command for up to 256 sectors and blocks on the
// channel's completion semaphore exactly once for the whole chunk: the
// controller raises a single IRQ per command, not per sector, and the
// entire chunk's words are pulled in one InsW once that IRQ wakes us.
func (c *Channel) readChunk(devIndex int, lba uint32, sectorCount uint32, buf []uint16) error {
	selectDisk(c, devIndex, uint8(lba>>24))
	setupLBA28(c, uint8(sectorCount), lba) // sectorCount==256 truncates to 0, meaning 256
	c.expectingIntr = true
	archx86.OutB(c.Base+regCommand, cmdRead)

	c.diskDone.Down()
	if err := pollReady(c); err != nil {
		panicOnPollFailure("ReadSectors", err)
	}
	wordsPerSector := bootconfig.SectorSize / 2
	archx86.InsW(c.Base+regData, buf[:sectorCount*uint32(wordsPerSector)])
	return nil
}

// WriteSectors writes count contiguous sectors starting at lba from buf.
func (d *Disk) WriteSectors(lba uint32, count uint32, buf []uint16) error {
	if err := checkLBABound(lba, count); err != nil {
		return err
	}
	d.Channel.mu.Acquire()
	defer d.Channel.mu.Release()

	wordsPerSector := bootconfig.SectorSize / 2
	offset := uint32(0)
	for offset < count {
		chunk := count - offset
		if chunk > maxChunkSectors {
			chunk = maxChunkSectors
		}
		if err := d.Channel.writeChunk(d.DevIndex, lba+offset, chunk, buf[offset*uint32(wordsPerSector):]); err != nil {
			return err
		}
		offset += chunk
	}
	return nil
}

func (c *Channel) writeChunk(devIndex int, lba uint32, sectorCount uint32, buf []uint16) error {
	selectDisk(c, devIndex, uint8(lba>>24))
	setupLBA28(c, uint8(sectorCount), lba)
	archx86.OutB(c.Base+regCommand, cmdWrite)

	wordsPerSector := bootconfig.SectorSize / 2
	for s := uint32(0); s < sectorCount; s++ {
		if err := pollReady(c); err != nil {
			panicOnPollFailure("WriteSectors", err)
		}
		c.expectingIntr = true
		archx86.OutsW(c.Base+regData, buf[s*uint32(wordsPerSector):(s+1)*uint32(wordsPerSector)])
		c.diskDone.Down() // the drive raises IRQ once it has consumed the sector
	}
	return nil
}
