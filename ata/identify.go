package ata

import "kernel32/archx86"

// IdentifyDisk issues IDENTIFY DEVICE and parses the 512-byte response into
// d.Present/Sectors/Model/Serial. ok is false if no drive answers (status
// reads back all-1s, the standard "nothing there" tell).
func (d *Disk) IdentifyDisk() (ok bool) {
	c := d.Channel
	c.mu.Acquire()
	defer c.mu.Release()

	selectDisk(c, d.DevIndex, 0)
	archx86.OutB(c.Base+regSectorCnt, 0)
	archx86.OutB(c.Base+regLBALow, 0)
	archx86.OutB(c.Base+regLBAMid, 0)
	archx86.OutB(c.Base+regLBAHigh, 0)

	status := archx86.InB(c.Base + regStatus)
	if status == 0xFF {
		return false
	}

	c.expectingIntr = true
	archx86.OutB(c.Base+regCommand, cmdIdentify)

	status = archx86.InB(c.Base + regStatus)
	if status == 0 {
		return false // no such drive
	}

	c.diskDone.Down()
	if err := pollReady(c); err != nil {
		return false
	}

	words := make([]uint16, 256)
	archx86.InsW(c.Base+regData, words)

	bytes := wordsToBytes(words)
	serial := bytes[20:40]
	swapPairs(serial)
	model := bytes[54:94]
	swapPairs(model)

	d.Present = true
	d.Serial = trimTrailingSpace(string(serial))
	d.Model = trimTrailingSpace(string(model))
	d.Sectors = uint32(words[60]) | uint32(words[61])<<16
	return true
}

func wordsToBytes(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		out[2*i] = uint8(w)
		out[2*i+1] = uint8(w >> 8)
	}
	return out
}

// swapPairs reverses every adjacent byte pair in place — IDENTIFY's ASCII
// fields arrive byte-swapped within each 16-bit word. Only complete pairs
// are swapped: the loop condition stops one short of a trailing odd byte
// instead of touching past the end of it, the fix for the original
// swap-on-odd-length corruption.
func swapPairs(buf []byte) {
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i], buf[i+1] = buf[i+1], buf[i]
	}
}

func trimTrailingSpace(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == 0) {
		end--
	}
	return s[:end]
}
