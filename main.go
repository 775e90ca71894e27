// Command kernel32 is the bring-up entry point: it wires every subsystem
// together in dependency order the same way kernel.go's KernelMain narrates
// its own bring-up (UART, then memory, then the rest), substituting this
// kernel's own stages (IDT/PIC, memory pools, scheduler, timer, keyboard,
// disk, syscalls, TSS).
//
// Grounded on src/go/mazarin/kernel.go's KernelMain: a single ordered
// sequence of Init calls with a klog.Info narration line after each stage,
// instead of that function's raw uartPuts breadcrumbs.
package main

import (
	"kernel32/archx86"
	"kernel32/ata"
	"kernel32/bootconfig"
	"kernel32/irq"
	"kernel32/keyboard"
	"kernel32/klog"
	"kernel32/mm"
	"kernel32/sched"
	"kernel32/syscall32"
	"kernel32/timer"
)

// kernelTSS is the single TSS this kernel ever loads; InstallTSS keeps a
// pointer to it and updates ESP0 on every schedule into a user task.
var kernelTSS archx86.TSS

// passthroughTranslator is a placeholder scancode table: the real
// make/break/shift-state table is an external collaborator this core
// depends on but does not ship. It treats any scancode under
// 0x80 (a key-down, on a US QWERTY set-1 layout) as its own ASCII value,
// which is wrong for anything but a handful of keys — good enough to
// exercise the IRQ1 -> ioqueue wiring, not a real keyboard driver.
func passthroughTranslator(scancode uint8) (byte, bool) {
	if scancode >= 0x80 {
		return 0, false
	}
	return scancode, true
}

// KernelMain brings up every subsystem in order: the IDT/PIC, the two
// physical-page pools and the kernel virtual-address space, the
// scheduler (which every later subsystem's blocking primitives depend
// on), the timer, keyboard, disk, syscall dispatch, and finally the TSS
// a ring-3 process needs. Call once, from whatever assembly entry point
// hands off to Go after enabling protected mode.
func KernelMain() {
	klog.Info("installing IDT and remapping the PIC")
	for v := 0; v < irq.NumVectors; v++ {
		userCallable := v == syscall32.Vector
		irq.SetGate(v, archx86.TrapStubAddr(v), bootconfig.KernelCodeSelector, userCallable)
	}
	irq.Install()
	irq.Remap()

	klog.Info("initializing physical page pools and kernel address space")
	mm.Init(bootconfig.KernelPoolBase, bootconfig.KernelPoolPages,
		bootconfig.UserPoolBase, bootconfig.UserPoolPages)
	mm.InitKernelVAddr()

	klog.Info("starting scheduler")
	if err := sched.Init(); err != nil {
		klog.Fatal("KernelMain", "scheduler init: "+err.Error())
	}

	klog.Info("programming timer")
	timer.Install()

	klog.Info("installing keyboard driver")
	keyboard.SetTranslator(passthroughTranslator)
	keyboard.Install()

	klog.Info("initializing ATA/IDE disks")
	ata.Init()

	klog.Info("installing syscall dispatch")
	syscall32.Install()

	klog.Info("installing TSS")
	archx86.InstallTSS(&kernelTSS, bootconfig.TSSSelector)

	klog.Info("kernel bring-up complete")

	archx86.Enable()
	for {
		sched.ThreadYield()
	}
}

func main() {
	KernelMain()
}
