// Package list implements the intrusive doubly linked list used throughout
// the kernel for the scheduler's ready/all-task lists and every blocking
// primitive's waiter list.
//
// A Node is meant to be embedded directly inside the struct it links — a
// PCB (see sched.PCB) embeds two independent Node fields, one for the
// ready/waiter tag and one for the all-tasks tag. This avoids any separate
// allocation for list bookkeeping, the same tradeoff taken by the
// intrusive free-list pointers embedded directly in Page
// (src/go/mazarin/page.go).
package list

import "kernel32/archx86"

// Node is an intrusive list link. Embed it in the struct you want to put on
// a List.
type Node struct {
	prev, next *Node
	list       *List // list this node currently belongs to, nil if unlinked
}

// List is a sentinel-head/tail doubly linked list of Nodes.
type List struct {
	head, tail Node
}

// New returns an empty, ready-to-use List.
func New() *List {
	l := &List{}
	l.head.next = &l.tail
	l.tail.prev = &l.head
	return l
}

// Empty reports whether the list has no elements.
func (l *List) Empty() bool {
	return l.head.next == &l.tail
}

// Push inserts n immediately after the sentinel head (so it becomes the new
// first element). Mutation is wrapped in an interrupt-disable guard so the
// three-pointer splice is atomic with respect to preemption.
func (l *List) Push(n *Node) {
	g := archx86.NewGuard()
	defer g.Restore()
	l.insertAfter(&l.head, n)
}

// Append inserts n immediately before the sentinel tail (so it becomes the
// new last element) — this is the ready-list round-robin requeue operation.
func (l *List) Append(n *Node) {
	g := archx86.NewGuard()
	defer g.Restore()
	l.insertAfter(l.tail.prev, n)
}

// insertAfter splices n in after at. Caller must hold the interrupt guard.
func (l *List) insertAfter(at, n *Node) {
	n.next = at.next
	n.prev = at
	at.next.prev = n
	at.next = n
	n.list = l
}

// Remove unlinks n from l. It is a no-op if n is not currently linked into
// l (including when it is on a different list).
func (l *List) Remove(n *Node) {
	g := archx86.NewGuard()
	defer g.Restore()
	if n.list != l {
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	n.list = nil
}

// Pop removes and returns the first element (the node after the sentinel
// head), or nil if the list is empty.
func (l *List) Pop() *Node {
	g := archx86.NewGuard()
	defer g.Restore()
	if l.head.next == &l.tail {
		return nil
	}
	n := l.head.next
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
	n.list = nil
	return n
}

// Front returns the first element without removing it, or nil if empty.
func (l *List) Front() *Node {
	if l.head.next == &l.tail {
		return nil
	}
	return l.head.next
}

// Find returns the first element for which pred returns true, scanning from
// the front, or nil if no element matches — the traversal-with-predicate
// operation the original list implementation calls for.
func (l *List) Find(pred func(*Node) bool) *Node {
	for n := l.head.next; n != &l.tail; n = n.next {
		if pred(n) {
			return n
		}
	}
	return nil
}

// Contains reports whether n is currently linked into l.
func (l *List) Contains(n *Node) bool {
	return n.list == l
}

// Len counts the elements currently on the list. O(n); used by tests, not
// on any hot path.
func (l *List) Len() int {
	count := 0
	for n := l.head.next; n != &l.tail; n = n.next {
		count++
	}
	return count
}

// Each calls fn once per element, front to back. Used where a caller needs
// every element rather than just one match (the scheduler's all-tasks
// enumeration for the ps syscall).
func (l *List) Each(fn func(*Node)) {
	for n := l.head.next; n != &l.tail; n = n.next {
		fn(n)
	}
}
