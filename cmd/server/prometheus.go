package main

import (
	"github.com/miretskiy/schedsim/simulator"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Prometheus metrics (gauges reflect the most recent tick of any session)
	promMetrics = struct {
		simTime        prometheus.Gauge
		readyQueue     prometheus.Gauge
		runningProcess prometheus.Gauge
		completed      prometheus.Gauge
		cpuUtil        prometheus.Gauge
		ticks          prometheus.Counter
		finishedRuns   *prometheus.CounterVec
		comparisons    prometheus.Counter
	}{
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedsim_time_ticks",
			Help: "Simulated time of the latest snapshot",
		}),
		readyQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedsim_ready_queue_length",
			Help: "Processes waiting in the ready queue",
		}),
		runningProcess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedsim_running_process_id",
			Help: "ID of the process on the CPU (-1 when idle)",
		}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedsim_completed_processes",
			Help: "Processes that have finished their burst",
		}),
		cpuUtil: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "schedsim_cpu_utilization_percent",
			Help: "Busy ticks as a percentage of elapsed ticks",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedsim_ticks_total",
			Help: "Ticks applied by live drivers",
		}),
		finishedRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedsim_finished_runs_total",
			Help: "Live runs that completed, by policy",
		}, []string{"policy"}),
		comparisons: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "schedsim_comparisons_total",
			Help: "Comparison runs executed",
		}),
	}
)

func initPrometheusMetrics() {
	prometheus.MustRegister(
		promMetrics.simTime,
		promMetrics.readyQueue,
		promMetrics.runningProcess,
		promMetrics.completed,
		promMetrics.cpuUtil,
		promMetrics.ticks,
		promMetrics.finishedRuns,
		promMetrics.comparisons,
	)
}

func updatePrometheusMetrics(state *simulator.State, policy simulator.Policy) {
	promMetrics.ticks.Inc()
	promMetrics.simTime.Set(float64(state.Elapsed()))
	promMetrics.readyQueue.Set(float64(state.ReadyQueue.Len()))

	if p := state.RunningProcess(); p != nil {
		promMetrics.runningProcess.Set(float64(p.ID))
	} else {
		promMetrics.runningProcess.Set(-1)
	}
	promMetrics.completed.Set(float64(state.FinishedCount()))

	// the timeline already covers the tick that starts at state.Time
	if state.Time >= 0 {
		promMetrics.cpuUtil.Set(float64(state.BusyTicks()) / float64(state.Time+1) * 100)
	}

	if state.Status == simulator.StatusFinished {
		promMetrics.cpuUtil.Set(state.Metrics.CPUUtilization)
		promMetrics.finishedRuns.WithLabelValues(policy.String()).Inc()
	}
}
