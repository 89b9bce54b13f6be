package simulator

import (
	"testing"
)

func TestReadyQueueBasicOperations(t *testing.T) {
	q := NewReadyQueue(4)

	t.Run("new queue is empty", func(t *testing.T) {
		if q.Len() != 0 {
			t.Errorf("Expected empty queue, got length %d", q.Len())
		}
		if idx := q.Pop(); idx != NoProcess {
			t.Errorf("Expected NoProcess from empty queue, got %d", idx)
		}
	})

	t.Run("push and pop keep FIFO order", func(t *testing.T) {
		q := NewReadyQueue(4)
		q.Push(2)
		q.Push(0)
		q.Push(1)

		for _, want := range []int{2, 0, 1} {
			if got := q.Pop(); got != want {
				t.Errorf("Expected %d, got %d", want, got)
			}
		}
		if !q.IsEmpty() {
			t.Errorf("Expected empty queue after pops, got length %d", q.Len())
		}
	})
}

func TestReadyQueueStableSort(t *testing.T) {
	procs := []ProcessRuntime{
		NewProcessRuntime(proc(1, 0, 5, 2)),
		NewProcessRuntime(proc(2, 0, 3, 1)),
		NewProcessRuntime(proc(3, 0, 5, 1)),
		NewProcessRuntime(proc(4, 0, 3, 2)),
	}
	q := ReadyQueue{0, 1, 2, 3}

	q.sortStable(PolicySJF.compare(procs))
	expected := []int{1, 3, 0, 2}
	for i, want := range expected {
		if q[i] != want {
			t.Fatalf("At position %d: expected %d, got %d (queue %v)", i, want, q[i], q)
		}
	}

	q.sortStable(PolicyPriorityPreemptive.compare(procs))
	expected = []int{1, 2, 3, 0}
	for i, want := range expected {
		if q[i] != want {
			t.Fatalf("At position %d: expected %d, got %d (queue %v)", i, want, q[i], q)
		}
	}

	q.sortStable(PolicyRoundRobin.compare(procs))
	for i, want := range expected {
		if q[i] != want {
			t.Fatalf("Round robin must not reorder: position %d expected %d, got %d", i, want, q[i])
		}
	}
}

func TestReadyQueueClone(t *testing.T) {
	q := ReadyQueue{1, 2}
	c := q.Clone()
	c[0] = 9
	c.Push(3)

	if q[0] != 1 || q.Len() != 2 {
		t.Errorf("Clone shares storage with original: %v", q)
	}
	if !c.Contains(3) || c.Contains(1) {
		t.Errorf("Unexpected clone contents: %v", c)
	}
}
