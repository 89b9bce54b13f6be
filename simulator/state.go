package simulator

import "encoding/json"

// Status is the lifecycle phase of a simulation run
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// TimelineEntry is a maximal interval [Start, End) during which one process held the CPU.
type TimelineEntry struct {
	ProcessID   int    `json:"processId"`
	ProcessName string `json:"processName"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Color       string `json:"color"`
}

// State is an immutable snapshot of a simulation run.
//
// Processes owns every runtime record; Running and ReadyQueue refer to it by
// index. Step never modifies its input, so a *State may be shared freely
// between goroutines once published.
type State struct {
	Time       int              // ticks elapsed; -1 before the first tick
	Processes  []ProcessRuntime // fixed set for the run
	Running    int              // index into Processes, or NoProcess
	ReadyQueue ReadyQueue
	Timeline   []TimelineEntry
	Status     Status
	Metrics    AggregateMetrics // zero until Status is finished

	rrSlice int // ticks the running process has used of its current round robin slice
}

// NewState builds the initial snapshot for a process registry.
func NewState(specs []ProcessSpec) *State {
	procs := make([]ProcessRuntime, len(specs))
	for i, spec := range specs {
		procs[i] = NewProcessRuntime(spec)
	}
	return &State{
		Time:       -1,
		Processes:  procs,
		Running:    NoProcess,
		ReadyQueue: NewReadyQueue(len(specs)),
		Timeline:   make([]TimelineEntry, 0),
		Status:     StatusIdle,
	}
}

// clone copies every mutable field so the result shares nothing with s.
func (s *State) clone() *State {
	c := *s
	c.Processes = make([]ProcessRuntime, len(s.Processes))
	for i := range s.Processes {
		c.Processes[i] = s.Processes[i].clone()
	}
	c.ReadyQueue = s.ReadyQueue.Clone()
	c.Timeline = make([]TimelineEntry, len(s.Timeline), len(s.Timeline)+1)
	copy(c.Timeline, s.Timeline)
	return &c
}

// withStatus returns a snapshot that differs from s only in Status.
// Slices are shared; neither snapshot is ever written again.
func (s *State) withStatus(status Status) *State {
	c := *s
	c.Status = status
	return &c
}

// Elapsed returns the number of ticks simulated so far.
func (s *State) Elapsed() int {
	return max(s.Time, 0)
}

// RunningProcess returns the process holding the CPU, or nil when idle.
func (s *State) RunningProcess() *ProcessRuntime {
	if s.Running == NoProcess {
		return nil
	}
	p := s.Processes[s.Running]
	return &p
}

// QueuedProcesses returns the ready queue resolved to process records, head first.
func (s *State) QueuedProcesses() []ProcessRuntime {
	out := make([]ProcessRuntime, 0, len(s.ReadyQueue))
	for _, idx := range s.ReadyQueue {
		out = append(out, s.Processes[idx])
	}
	return out
}

// FinishedCount returns how many processes have completed.
func (s *State) FinishedCount() int {
	n := 0
	for i := range s.Processes {
		if s.Processes[i].IsFinished() {
			n++
		}
	}
	return n
}

// AllFinished reports whether a non-empty run has completed every process.
func (s *State) AllFinished() bool {
	return len(s.Processes) > 0 && s.FinishedCount() == len(s.Processes)
}

// BusyTicks returns the number of ticks the CPU was occupied according to the timeline.
func (s *State) BusyTicks() int {
	busy := 0
	for _, e := range s.Timeline {
		busy += e.End - e.Start
	}
	return busy
}

type stateJSON struct {
	Time           int              `json:"time"`
	Status         Status           `json:"status"`
	Processes      []ProcessRuntime `json:"processes"`
	RunningProcess *ProcessRuntime  `json:"runningProcess"`
	ReadyQueue     []ProcessRuntime `json:"readyQueue"`
	GanttChartData []TimelineEntry  `json:"ganttChartData"`
	Metrics        AggregateMetrics `json:"metrics"`
}

// MarshalJSON renders the snapshot the way the visualization consumes it,
// with running process and ready queue resolved to process objects.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(stateJSON{
		Time:           s.Elapsed(),
		Status:         s.Status,
		Processes:      s.Processes,
		RunningProcess: s.RunningProcess(),
		ReadyQueue:     s.QueuedProcesses(),
		GanttChartData: s.Timeline,
		Metrics:        s.Metrics,
	})
}
