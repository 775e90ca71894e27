package ata

// Primary and Secondary are the two standard ATA channels this kernel
// supports. Init wires both; a channel with no drive attached simply has
// both Disks report Present=false after IdentifyDisk.
var (
	Primary   *Channel
	Secondary *Channel
)

// Init constructs both channels, registers their IRQ handlers, and runs
// IDENTIFY on all four possible drives. Called once during bring-up, after
// irq.Install and the PIC remap.
func Init() {
	Primary = NewChannel("ata0", 0x1F0, 14, 0x2E, [2]string{"sda", "sdb"})
	Secondary = NewChannel("ata1", 0x170, 15, 0x2F, [2]string{"sdc", "sdd"})

	Primary.Install()
	Secondary.Install()

	for _, d := range []*Disk{Primary.Disks[0], Primary.Disks[1], Secondary.Disks[0], Secondary.Disks[1]} {
		d.IdentifyDisk()
	}
}
