package simulator

import (
	"encoding/json"
	"fmt"
)

// Policy is one of the fixed set of CPU scheduling policies.
type Policy int

const (
	PolicyFIFO                  Policy = iota // First-In, First-Out
	PolicyLIFO                                // Last-In, First-Out
	PolicySJF                                 // Shortest Job First (non-preemptive)
	PolicySRTF                                // Shortest Remaining Time First (preemptive)
	PolicyRoundRobin                          // Round Robin with a fixed quantum
	PolicyPriorityNonPreemptive               // Priority, lower value wins, non-preemptive
	PolicyPriorityPreemptive                  // Priority, lower value wins, preemptive

	numPolicies
)

// Policies lists every policy in comparison order.
func Policies() []Policy {
	out := make([]Policy, 0, numPolicies)
	for p := PolicyFIFO; p < numPolicies; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reports whether p is one of the known policies.
func (p Policy) Valid() bool {
	return p >= PolicyFIFO && p < numPolicies
}

// String returns the wire tag of the policy ("FIFO", "RR", "PRIORITY_NP", ...)
func (p Policy) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return p.traits().tag
}

// Label returns the human readable name of the policy.
func (p Policy) Label() string {
	if !p.Valid() {
		return "unknown"
	}
	return p.traits().label
}

// RequiresQuantum reports whether the policy consults Options.Quantum.
func (p Policy) RequiresQuantum() bool {
	return p.traits().requiresQuantum
}

// RequiresPriority reports whether the policy orders by process priority.
func (p Policy) RequiresPriority() bool {
	return p.traits().key == keyPriority
}

// Preemptive reports whether the running process is requeued on every tick.
func (p Policy) Preemptive() bool {
	return p.traits().preemptive
}

// ParsePolicy parses a wire tag into a Policy
func ParsePolicy(s string) (Policy, error) {
	for p := PolicyFIFO; p < numPolicies; p++ {
		if policyTraits[p].tag == s {
			return p, nil
		}
	}
	return PolicyFIFO, fmt.Errorf("invalid policy: %s (must be one of FIFO, LIFO, SJF, SRTF, RR, PRIORITY_NP, PRIORITY_P)", s)
}

// MarshalJSON implements json.Marshaler for Policy
func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler for Policy
func (p *Policy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Options are the per-run parameters handed to Step.
type Options struct {
	Quantum int `json:"quantum"` // Round Robin time slice in ticks
}

// Validate checks the options against the policy they will be used with.
func (o Options) Validate(p Policy) error {
	if !p.Valid() {
		return ErrInvalidConfig(fmt.Sprintf("unknown policy %d", int(p)))
	}
	if p.RequiresQuantum() && o.Quantum < 1 {
		return ErrInvalidConfig("quantum must be >= 1 for round robin")
	}
	return nil
}

const (
	MinSpeedMs = 50   // Fastest live tick period
	MaxSpeedMs = 1000 // Slowest live tick period

	// MaxTicks bounds headless runs; a run still unfinished past this time is aborted.
	MaxTicks = 1000
)

// SimConfig holds the parameters of a simulation run
type SimConfig struct {
	Policy  Policy `json:"policy"`  // Scheduling policy
	Quantum int    `json:"quantum"` // Round Robin quantum (ignored by other policies)
	SpeedMs int    `json:"speedMs"` // Live driver tick period in milliseconds
}

// DefaultConfig returns the settings the simulator starts with
func DefaultConfig() SimConfig {
	return SimConfig{
		Policy:  PolicyFIFO,
		Quantum: 2,
		SpeedMs: 500,
	}
}

// Options returns the engine options for this config.
func (c SimConfig) Options() Options {
	return Options{Quantum: c.Quantum}
}

// Validate checks if configuration values are reasonable
func (c *SimConfig) Validate() error {
	if err := c.Options().Validate(c.Policy); err != nil {
		return err
	}
	if c.SpeedMs < MinSpeedMs || c.SpeedMs > MaxSpeedMs {
		return ErrInvalidConfig(fmt.Sprintf("speedMs must be between %d and %d", MinSpeedMs, MaxSpeedMs))
	}
	return nil
}
