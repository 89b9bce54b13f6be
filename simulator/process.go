package simulator

// NoProcess marks an empty CPU or an empty queue.
const NoProcess = -1

// ProcessSpec is the caller-provided description of a process.
// The engine never mutates it.
type ProcessSpec struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ArrivalTime int    `json:"arrivalTime" yaml:"arrivalTime"`
	BurstTime   int    `json:"burstTime" yaml:"burstTime"`
	Priority    int    `json:"priority" yaml:"priority"` // lower value = higher priority
	Color       string `json:"color" yaml:"color"`
}

// ProcessRuntime is the per-run lifecycle of one process.
type ProcessRuntime struct {
	ProcessSpec

	RemainingTime  int  `json:"remainingTime"`
	StartTime      *int `json:"startTime"`      // first dispatch, nil until started
	FinishTime     *int `json:"finishTime"`     // nil until RemainingTime hits 0
	WaitingTime    int  `json:"waitingTime"`    // ticks spent in the ready queue
	TurnaroundTime int  `json:"turnaroundTime"` // valid once finished
	ResponseTime   int  `json:"responseTime"`   // valid once started
	HasStarted     bool `json:"hasStarted"`
}

// NewProcessRuntime derives the initial runtime record for spec.
func NewProcessRuntime(spec ProcessSpec) ProcessRuntime {
	return ProcessRuntime{
		ProcessSpec:   spec,
		RemainingTime: spec.BurstTime,
	}
}

// IsFinished reports whether the process has completed its burst.
func (p *ProcessRuntime) IsFinished() bool {
	return p.FinishTime != nil
}

func (p ProcessRuntime) clone() ProcessRuntime {
	c := p
	if p.StartTime != nil {
		c.StartTime = intPtr(*p.StartTime)
	}
	if p.FinishTime != nil {
		c.FinishTime = intPtr(*p.FinishTime)
	}
	return c
}

func intPtr(v int) *int {
	return &v
}

// Palette is the set of display colours handed out to processes in order.
var Palette = []string{
	"#ef4444", "#f97316", "#f59e0b", "#eab308", "#84cc16", "#22c55e",
	"#10b981", "#14b8a6", "#06b6d4", "#0ea5e9", "#3b82f6", "#6366f1",
	"#8b5cf6", "#a855f7", "#d946ef", "#ec4899", "#f43f5e",
}

// ColorFor returns the palette colour for the process at position index.
func ColorFor(index int) string {
	if index < 0 {
		index = -index
	}
	return Palette[index%len(Palette)]
}
