package sched

import (
	"testing"

	"kernel32/archx86"
	"kernel32/bootconfig"
	"kernel32/list"
)

func newTestPCB(name string, priority int) *PCB {
	return &PCB{Name: name, Priority: priority, Ticks: priority, StackMagic: 0x19870916}
}

func TestPickNextReturnsIdleWhenReadyListEmpty(t *testing.T) {
	ready := list.New()
	idle := newTestPCB("idle", 10)

	got := pickNext(ready, idle)
	if got != idle {
		t.Fatal("pickNext on an empty ready list should return idle")
	}
}

func TestPickNextReturnsFrontOfReadyListInFIFOOrder(t *testing.T) {
	ready := list.New()
	idle := newTestPCB("idle", 10)
	a := newTestPCB("a", 1)
	b := newTestPCB("b", 1)
	ready.Append(&a.General)
	ready.Append(&b.General)

	first := pickNext(ready, idle)
	if first != a {
		t.Fatalf("pickNext should return a first, got %s", first.Name)
	}
	second := pickNext(ready, idle)
	if second != b {
		t.Fatalf("pickNext should return b second, got %s", second.Name)
	}
}

func resetScheduler() {
	readyList = list.New()
	allList = list.New()
}

func TestScheduleSwitchesToReadyTaskWithoutRequeuingIdle(t *testing.T) {
	restoreCPU := archx86.UseSimulatedCPU(false)
	defer restoreCPU()
	restoreSwitch := archx86.UseSimulatedSwitch(func(saved *uint32, next uint32) {
		*saved = 0 // pretend the outgoing task's SP was recorded
	})
	defer restoreSwitch()

	resetScheduler()
	idleTask = newTestPCB("idle", bootconfig.IdlePriority)
	idleTask.Status = Running
	currentTask = idleTask

	a := newTestPCB("a", 3)
	a.Status = Ready
	readyList.Append(&a.General)

	Schedule()
	if currentTask != a {
		t.Fatalf("Schedule should switch to the only ready task, got %s", currentTask.Name)
	}
	if idleTask.Status != Ready {
		t.Fatalf("preempted idle task should be marked Ready, got %s", idleTask.Status)
	}

	// idle itself must not reappear on the ready list — it's the fallback,
	// not a queued task.
	resetScheduler()
	currentTask = idleTask
	idleTask.Status = Running
	Schedule()
	if readyList.Len() != 0 {
		t.Fatal("idle task should never be appended back onto the ready list")
	}
}

func TestThreadUnblockPutsTaskAtFrontOfReadyList(t *testing.T) {
	restoreCPU := archx86.UseSimulatedCPU(false)
	defer restoreCPU()
	resetScheduler()

	a := newTestPCB("a", 2)
	a.Status = Blocked
	b := newTestPCB("b", 2)
	readyList.Append(&b.General)

	ThreadUnblock(&a.General)

	front := readyList.Front()
	if pcbFromGeneralNode(front) != a {
		t.Fatal("ThreadUnblock should place the woken task at the front of the ready list")
	}
	if a.Status != Ready {
		t.Fatalf("ThreadUnblock should mark the task Ready, got %s", a.Status)
	}
}

func TestTickDecrementsAndReschedulesAtZero(t *testing.T) {
	restoreCPU := archx86.UseSimulatedCPU(false)
	defer restoreCPU()
	restoreSwitch := archx86.UseSimulatedSwitch(func(saved *uint32, next uint32) {})
	defer restoreSwitch()

	resetScheduler()
	idleTask = newTestPCB("idle", bootconfig.IdlePriority)
	idleTask.Status = Running
	currentTask = idleTask
	currentTask.Ticks = 1

	a := newTestPCB("a", 1)
	a.Status = Ready
	readyList.Append(&a.General)

	Tick()
	if currentTask != a {
		t.Fatal("Tick should reschedule once the running task's slice reaches zero")
	}
}
