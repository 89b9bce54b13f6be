package simulator

import "slices"

// ReadyQueue holds indices into State.Processes of processes waiting for the CPU.
// Order is significant: the head is dispatched next and ties in the policy
// ordering keep their queue position.
type ReadyQueue []int

// NewReadyQueue creates an empty ready queue with room for n entries
func NewReadyQueue(n int) ReadyQueue {
	return make(ReadyQueue, 0, n)
}

// Push appends a process at the tail
func (q *ReadyQueue) Push(idx int) {
	*q = append(*q, idx)
}

// Pop removes and returns the head, or NoProcess if the queue is empty
func (q *ReadyQueue) Pop() int {
	if q.IsEmpty() {
		return NoProcess
	}
	head := (*q)[0]
	*q = (*q)[1:]
	return head
}

// IsEmpty returns true if no process is waiting
func (q ReadyQueue) IsEmpty() bool {
	return len(q) == 0
}

// Len returns the number of waiting processes
func (q ReadyQueue) Len() int {
	return len(q)
}

// Contains reports whether idx is queued
func (q ReadyQueue) Contains(idx int) bool {
	return slices.Contains(q, idx)
}

// Clone returns an independent copy of the queue
func (q ReadyQueue) Clone() ReadyQueue {
	c := make(ReadyQueue, len(q), len(q)+1)
	copy(c, q)
	return c
}

// sortStable reorders the queue in place; cmp == nil leaves it untouched.
func (q ReadyQueue) sortStable(cmp func(a, b int) int) {
	if cmp == nil {
		return
	}
	slices.SortStableFunc(q, cmp)
}
