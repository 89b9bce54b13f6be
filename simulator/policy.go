package simulator

import "fmt"

// orderingKey selects the ready-queue sort applied before dispatch.
type orderingKey int

const (
	keyQueueOrder   orderingKey = iota // no sort, strict rotation
	keyArrivalAsc                      // earliest arrival first
	keyArrivalDesc                     // latest arrival first
	keyRemainingAsc                    // least remaining time first
	keyPriority                        // lowest priority value first
)

type policyTrait struct {
	tag             string
	label           string
	key             orderingKey
	preemptive      bool
	requiresQuantum bool
}

// policyTraits is indexed by Policy. Every variant must have an entry;
// TestPolicyTraitsComplete walks the whole table.
var policyTraits = [numPolicies]policyTrait{
	PolicyFIFO: {
		tag:   "FIFO",
		label: "First-In, First-Out (FIFO)",
		key:   keyArrivalAsc,
	},
	PolicyLIFO: {
		tag:   "LIFO",
		label: "Last-In, First-Out (LIFO)",
		key:   keyArrivalDesc,
	},
	PolicySJF: {
		tag:   "SJF",
		label: "Shortest Job First (SJF, Non-Preemptive)",
		key:   keyRemainingAsc,
	},
	PolicySRTF: {
		tag:        "SRTF",
		label:      "Shortest Remaining Time First (SRTF, Preemptive)",
		key:        keyRemainingAsc,
		preemptive: true,
	},
	PolicyRoundRobin: {
		tag:             "RR",
		label:           "Round Robin (RR)",
		key:             keyQueueOrder,
		requiresQuantum: true,
	},
	PolicyPriorityNonPreemptive: {
		tag:   "PRIORITY_NP",
		label: "Priority (Non-Preemptive)",
		key:   keyPriority,
	},
	PolicyPriorityPreemptive: {
		tag:        "PRIORITY_P",
		label:      "Priority (Preemptive)",
		key:        keyPriority,
		preemptive: true,
	},
}

func (p Policy) traits() policyTrait {
	if !p.Valid() {
		panic(fmt.Sprintf("BUG: unknown scheduling policy %d", int(p)))
	}
	return policyTraits[p]
}

// compare returns the ordering of two ready processes under p, or nil when
// the policy dispatches in plain queue order.
func (p Policy) compare(procs []ProcessRuntime) func(a, b int) int {
	switch p.traits().key {
	case keyQueueOrder:
		return nil
	case keyArrivalAsc:
		return func(a, b int) int { return procs[a].ArrivalTime - procs[b].ArrivalTime }
	case keyArrivalDesc:
		return func(a, b int) int { return procs[b].ArrivalTime - procs[a].ArrivalTime }
	case keyRemainingAsc:
		return func(a, b int) int { return procs[a].RemainingTime - procs[b].RemainingTime }
	case keyPriority:
		return func(a, b int) int { return procs[a].Priority - procs[b].Priority }
	default:
		panic(fmt.Sprintf("BUG: policy %s has no ordering key", p))
	}
}
