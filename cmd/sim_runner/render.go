package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/miretskiy/schedsim/simulator"
	"github.com/olekukonko/tablewriter"
)

const ganttCell = 8

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

// ganttSegments fills the gaps between timeline entries with idle segments.
func ganttSegments(timeline []simulator.TimelineEntry) []simulator.TimelineEntry {
	var out []simulator.TimelineEntry
	prev := 0
	for _, e := range timeline {
		if e.Start > prev {
			out = append(out, simulator.TimelineEntry{ProcessID: simulator.NoProcess, ProcessName: "idle", Start: prev, End: e.Start})
		}
		out = append(out, e)
		prev = e.End
	}
	return out
}

func outputGantt(w io.Writer, timeline []simulator.TimelineEntry) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	segs := ganttSegments(timeline)
	if len(segs) == 0 {
		_, _ = fmt.Fprint(w, "(empty)\n\n")
		return
	}

	var bar, axis strings.Builder
	bar.WriteString("|")
	for _, s := range segs {
		bar.WriteString(center(s.ProcessName, ganttCell))
		bar.WriteString("|")
		axis.WriteString(fmt.Sprintf("%-*d", ganttCell+1, s.Start))
	}
	axis.WriteString(strconv.Itoa(segs[len(segs)-1].End))

	_, _ = fmt.Fprintln(w, bar.String())
	_, _ = fmt.Fprintln(w, axis.String())
	_, _ = fmt.Fprintln(w)
}

func center(s string, width int) string {
	if len(s) > width {
		return s[:width]
	}
	pad := width - len(s)
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}

// outputSchedule prints the per-process table. The priority column only
// appears for policies that order by it.
func outputSchedule(w io.Writer, state *simulator.State, policy simulator.Policy) {
	withPriority := policy.RequiresPriority()

	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	header := []string{"ID", "Name"}
	if withPriority {
		header = append(header, "Priority")
	}
	header = append(header, "Burst", "Arrival", "Start", "Finish", "Wait", "Turnaround", "Response")
	table.SetHeader(header)

	rows := make([][]string, 0, len(state.Processes))
	for _, p := range state.Processes {
		row := []string{strconv.Itoa(p.ID), p.Name}
		if withPriority {
			row = append(row, strconv.Itoa(p.Priority))
		}
		row = append(row,
			strconv.Itoa(p.BurstTime),
			strconv.Itoa(p.ArrivalTime),
			optInt(p.StartTime),
			optInt(p.FinishTime),
			strconv.Itoa(p.WaitingTime),
			strconv.Itoa(p.TurnaroundTime),
			strconv.Itoa(p.ResponseTime))
		rows = append(rows, row)
	}
	table.AppendBulk(rows)

	m := state.Metrics
	footer := make([]string, len(header)-3, len(header))
	footer = append(footer,
		fmt.Sprintf("Average\n%.2f", m.AvgWaitingTime),
		fmt.Sprintf("Average\n%.2f", m.AvgTurnaroundTime),
		fmt.Sprintf("Average\n%.2f", m.AvgResponseTime))
	table.SetFooter(footer)
	table.Render()
	_, _ = fmt.Fprintf(w, "CPU utilization %.2f%%, throughput %.3f/t over %d ticks\n",
		m.CPUUtilization, m.Throughput, state.Elapsed())
}

// outputComparison prints one row per policy. For the time metrics the best
// value is marked with "*" and the worst with "!".
func outputComparison(w io.Writer, results []simulator.ComparisonResult) {
	type column struct {
		metric func(simulator.AggregateMetrics) float64
		lo, hi float64
	}
	cols := []*column{
		{metric: func(m simulator.AggregateMetrics) float64 { return m.AvgTurnaroundTime }},
		{metric: func(m simulator.AggregateMetrics) float64 { return m.AvgWaitingTime }},
		{metric: func(m simulator.AggregateMetrics) float64 { return m.AvgResponseTime }},
	}
	for _, c := range cols {
		c.lo, c.hi, _ = simulator.MinMax(results, c.metric)
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Algorithm", "Avg Turnaround", "Avg Waiting", "Avg Response", "CPU Utilization", "Throughput"})
	for _, r := range results {
		if r.Err != nil {
			reason := r.Err.Error()
			if r.IsTimeout() {
				reason = fmt.Sprintf("timed out after %d ticks", simulator.MaxTicks)
			}
			table.Append([]string{r.Label, "-", "-", "-", "-", reason})
			continue
		}
		row := []string{r.Label}
		for _, c := range cols {
			v := c.metric(r.Metrics)
			row = append(row, fmt.Sprintf("%.2f", v)+marker(v, c.lo, c.hi))
		}
		row = append(row,
			fmt.Sprintf("%.2f%%", r.Metrics.CPUUtilization),
			fmt.Sprintf("%.3f", r.Metrics.Throughput))
		table.Append(row)
	}
	table.Render()
	_, _ = fmt.Fprintln(w, "* best  ! worst")
}

func marker(v, lo, hi float64) string {
	switch {
	case lo == hi:
		return ""
	case v == lo:
		return " *"
	case v == hi:
		return " !"
	default:
		return ""
	}
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
