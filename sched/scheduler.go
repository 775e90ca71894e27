package sched

import (
	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/ksync"
	"kernel32/list"
	"kernel32/mm"
)

var (
	readyList = list.New()
	allList   = list.New()

	idleTask    *PCB
	currentTask *PCB

	pidMu   = ksync.NewMutex()
	nextPID = 1
)

// allocPID hands out a strictly increasing task identifier, guarded the
// same way every other shared counter in this kernel is.
func allocPID() int {
	pidMu.Acquire()
	defer pidMu.Release()
	pid := nextPID
	nextPID++
	return pid
}

// newPCB carves a PCB out of a freshly allocated, zeroed kernel page: the
// PCB header occupies the low end of the page and the task's kernel stack
// grows down from the page's top, the same page-doubles-as-header layout
// mm's arena uses for its heap blocks.
func newPCB(name string, priority int) (*PCB, error) {
	page, err := mm.GetKernelPages(1)
	if err != nil {
		return nil, err
	}
	pcb := pcbAtPage(page)
	*pcb = PCB{
		PID:        allocPID(),
		Name:       name,
		Status:     Ready,
		Priority:   priority,
		Ticks:      priority,
		KStackTop:  page + bootconfig.PageSize,
		StackMagic: bootconfig.StackMagic,
	}
	return pcb, nil
}

// pcbAtPage reinterprets the base of a freshly mapped kernel page as a PCB,
// the way arenaAt does for a heap-backing page in mm.
func pcbAtPage(page uint32) *PCB {
	return (*PCB)(pageHeader(page))
}

// Init creates the idle task and installs it as the current task. Called
// once during bring-up, after mm is initialized and before the timer starts
// firing; it also registers this scheduler with ksync so Mutex/Semaphore
// can block and wake tasks.
func Init() error {
	idle, err := newPCB("idle", bootconfig.IdlePriority)
	if err != nil {
		return err
	}
	idle.Status = Running
	idleTask = idle
	currentTask = idle
	allList.Append(&idle.AllTasks)
	ksync.SetScheduler(pkgScheduler{})
	return nil
}

// CreateThread allocates a new PCB, seeds its initial stack frame so that
// the first switch into it resumes at entry, and places it on the ready
// list at the back.
func CreateThread(name string, priority int, entry uintptr, arg uintptr) (*PCB, error) {
	pcb, err := newPCB(name, priority)
	if err != nil {
		return nil, err
	}
	pcb.KStackTop = seedInitialFrame(pcb.KStackTop, entry, arg)
	allList.Append(&pcb.AllTasks)
	readyList.Append(&pcb.General)
	return pcb, nil
}

// Current returns the presently running task's PCB.
func Current() *PCB {
	return currentTask
}

// AllTasks returns every task currently known to the scheduler, in
// creation order — the ps syscall's data source.
func AllTasks() []*PCB {
	var out []*PCB
	allList.Each(func(n *list.Node) {
		out = append(out, pcbFromAllTasksNode(n))
	})
	return out
}

// pickNext chooses the next task to run: the head of the ready list, or
// the idle task if the ready list is empty. Pure decision logic, kept
// separate from the list/guard/switch plumbing around it so it is testable
// without a scheduler bring-up.
func pickNext(ready *list.List, idle *PCB) *PCB {
	if n := ready.Pop(); n != nil {
		return pcbFromGeneralNode(n)
	}
	return idle
}

// Schedule picks the next ready task and switches to it. Must be called
// with interrupts already disabled (the timer ISR and every
// Block/Unblock/Yield caller establish that before reaching here).
func Schedule() {
	archx86.MustBeDisabled("Schedule")

	next := pickNext(readyList, idleTask)
	prev := currentTask
	if prev != next {
		if prev.Status == Running {
			prev.Status = Ready
			prev.Ticks = prev.Priority
			if prev != idleTask {
				readyList.Append(&prev.General)
			}
		}
		next.Status = Running
		currentTask = next
		activateAddressSpace(next)
		archx86.SwitchStacks(&prev.KStackTop, next.KStackTop)
	}
	checkStackMagic(currentTask)
}

// activateAddressSpace loads CR3 and refreshes TSS.ESP0 before switching
// into next, but only for a user task: a kernel thread runs entirely in
// the kernel's own always-mapped address space and never takes a ring
// transition, so it has neither a page directory nor a reason to move
// ESP0.
func activateAddressSpace(next *PCB) {
	if next.PageDir == 0 {
		return
	}
	archx86.WriteCR3(next.PageDir)
	archx86.SetKernelStack(next.KStackTop)
}

// checkStackMagic panics via kpanic if the current task's stack-overflow
// sentinel has been clobbered — called after every switch into a task, the
// same point the timer tick checks it for the still-running task.
func checkStackMagic(pcb *PCB) {
	if pcb.StackMagic != bootconfig.StackMagic {
		stackMagicViolation(pcb)
	}
}

// ThreadBlock marks the current task Blocked and reschedules. It returns
// once some ThreadUnblock(current's node) call has run. Callers
// (ksync.Semaphore.Down) already hold the interrupt guard.
func ThreadBlock() {
	archx86.MustBeDisabled("ThreadBlock")
	currentTask.Status = Blocked
	Schedule()
}

// ThreadUnblock moves the task identified by n back onto the ready list,
// at the front, so a just-woken task gets a chance to run before the rest
// of the round-robin queue it left behind.
func ThreadUnblock(n *list.Node) {
	archx86.MustBeDisabled("ThreadUnblock")
	pcb := pcbFromGeneralNode(n)
	pcb.Status = Ready
	pcb.Ticks = pcb.Priority
	readyList.Push(n)
}

// ThreadYield voluntarily gives up the remainder of the current time
// slice.
func ThreadYield() {
	g := archx86.NewGuard()
	defer g.Restore()
	Schedule()
}

// Tick is called from the timer ISR once per PIT interrupt. It decrements
// the current task's remaining slice and reschedules once it reaches zero.
func Tick() {
	archx86.MustBeDisabled("Tick")
	checkStackMagic(currentTask)
	currentTask.Elapsed++
	currentTask.Ticks--
	if currentTask.Ticks <= 0 {
		Schedule()
	}
}

// pkgScheduler adapts the package-level scheduler functions to ksync's
// Scheduler interface, the dependency-inversion seam ksync documents for
// exactly this purpose.
type pkgScheduler struct{}

func (pkgScheduler) CurrentNode() *list.Node { return &currentTask.General }
func (pkgScheduler) Block()                  { ThreadBlock() }
func (pkgScheduler) Unblock(n *list.Node)     { ThreadUnblock(n) }
