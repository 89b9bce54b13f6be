package simulator

import "math"

// AggregateMetrics summarizes a finished run
type AggregateMetrics struct {
	AvgWaitingTime    float64 `json:"avgWaitingTime"`
	AvgTurnaroundTime float64 `json:"avgTurnaroundTime"`
	AvgResponseTime   float64 `json:"avgResponseTime"`
	CPUUtilization    float64 `json:"cpuUtilization"` // percent of elapsed ticks spent on bursts
	Throughput        float64 `json:"throughput"`     // processes completed per tick
}

// CalculateMetrics derives the aggregate statistics of a finished run.
// With no processes or no elapsed time every field is zero.
func CalculateMetrics(processes []ProcessRuntime, totalTime int) AggregateMetrics {
	if len(processes) == 0 || totalTime <= 0 {
		return AggregateMetrics{}
	}

	var waiting, turnaround, response, burst int
	for i := range processes {
		p := &processes[i]
		waiting += p.WaitingTime
		if p.FinishTime != nil {
			turnaround += *p.FinishTime - p.ArrivalTime
		}
		response += p.ResponseTime
		burst += p.BurstTime
	}

	n := float64(len(processes))
	elapsed := float64(totalTime)
	return AggregateMetrics{
		AvgWaitingTime:    float64(waiting) / n,
		AvgTurnaroundTime: float64(turnaround) / n,
		AvgResponseTime:   float64(response) / n,
		CPUUtilization:    float64(burst) / elapsed * 100,
		Throughput:        n / elapsed,
	}
}

// MinMax returns the smallest and largest value of a metric across the
// successful results of a comparison. ok is false when no result succeeded.
func MinMax(results []ComparisonResult, metric func(AggregateMetrics) float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		v := metric(r.Metrics)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
