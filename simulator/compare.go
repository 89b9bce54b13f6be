package simulator

import (
	"encoding/json"
	"errors"
	"sync"
)

// ComparisonResult is the outcome of running one policy headless
type ComparisonResult struct {
	Policy  Policy           `json:"policy"`
	Label   string           `json:"algorithm"`
	Metrics AggregateMetrics `json:"metrics"`
	Err     error            `json:"-"`
}

// MarshalJSON adds the error text, if any
func (r ComparisonResult) MarshalJSON() ([]byte, error) {
	type plain ComparisonResult
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// RunHeadless runs a single policy to completion and returns the final snapshot.
// On ErrTimeout the last snapshot reached is returned alongside the error.
func RunHeadless(processes []ProcessSpec, policy Policy, opts Options) (*State, error) {
	cfg := DefaultConfig()
	cfg.Policy = policy
	cfg.Quantum = opts.Quantum
	sim, err := NewSimulator(processes, cfg)
	if err != nil {
		return nil, err
	}
	return sim.RunToCompletion(MaxTicks)
}

// RunAll runs every policy against the same registry and options and returns
// one result per policy in Policies() order. A policy that fails to finish
// carries its error in the result; the others still report normally.
func RunAll(processes []ProcessSpec, opts Options) ([]ComparisonResult, error) {
	if len(processes) == 0 {
		return nil, ErrNoProcesses
	}
	for _, p := range Policies() {
		if err := opts.Validate(p); err != nil {
			return nil, err
		}
	}

	policies := Policies()
	results := make([]ComparisonResult, len(policies))
	var wg sync.WaitGroup
	for i, policy := range policies {
		wg.Add(1)
		go func(i int, policy Policy) {
			defer wg.Done()
			res := ComparisonResult{Policy: policy, Label: policy.Label()}
			final, err := RunHeadless(processes, policy, opts)
			if err != nil {
				res.Err = err
			} else {
				res.Metrics = final.Metrics
			}
			results[i] = res
		}(i, policy)
	}
	wg.Wait()
	return results, nil
}

// Failed returns the results whose run did not finish.
func Failed(results []ComparisonResult) []ComparisonResult {
	var out []ComparisonResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// IsTimeout reports whether a comparison result failed on the tick bound.
func (r ComparisonResult) IsTimeout() bool {
	return errors.Is(r.Err, ErrTimeout)
}
