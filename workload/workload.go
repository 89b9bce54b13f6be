// Package workload loads, validates and generates process sets.
package workload

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/miretskiy/schedsim/simulator"
	"gopkg.in/yaml.v3"
)

// DefaultRandomCount is the size of a generated workload when none is asked for.
const DefaultRandomCount = 5

// Workload is a process set plus optional scheduling overrides, as stored on disk.
type Workload struct {
	Policy    string                  `json:"policy,omitempty" yaml:"policy,omitempty"`
	Quantum   int                     `json:"quantum,omitempty" yaml:"quantum,omitempty"`
	Processes []simulator.ProcessSpec `json:"processes" yaml:"processes"`
}

// Config applies the workload's policy and quantum, when set, on top of base.
func (w *Workload) Config(base simulator.SimConfig) (simulator.SimConfig, error) {
	cfg := base
	if w.Policy != "" {
		p, err := simulator.ParsePolicy(strings.ToUpper(w.Policy))
		if err != nil {
			return base, err
		}
		cfg.Policy = p
	}
	if w.Quantum != 0 {
		cfg.Quantum = w.Quantum
	}
	return cfg, cfg.Validate()
}

// NewProcess builds a process the way the input form does: named P<id> and
// coloured by its position in the palette.
func NewProcess(id, arrival, burst, priority int) simulator.ProcessSpec {
	return simulator.ProcessSpec{
		ID:          id,
		Name:        fmt.Sprintf("P%d", id),
		ArrivalTime: arrival,
		BurstTime:   burst,
		Priority:    priority,
		Color:       simulator.ColorFor(id - 1),
	}
}

// Random generates n processes with arrival in [0,10), burst in [1,10] and
// priority in [0,10).
func Random(n int, rng *rand.Rand) []simulator.ProcessSpec {
	return RandomWith(n, rng, Shape{})
}

// RandomWith is Random with arrival and burst times drawn from the given shape.
// Priorities stay uniform.
func RandomWith(n int, rng *rand.Rand, shape Shape) []simulator.ProcessSpec {
	if n <= 0 {
		n = DefaultRandomCount
	}
	out := make([]simulator.ProcessSpec, n)
	for i := range out {
		arrival := shape.Arrival.Sample(rng, 0, 9)
		burst := shape.Burst.Sample(rng, 1, 10)
		out[i] = NewProcess(i+1, arrival, burst, rng.Intn(10))
	}
	return out
}

// Validate checks every process and fills in a missing name or colour.
func Validate(specs []simulator.ProcessSpec) error {
	var errs []error
	seen := make(map[int]bool, len(specs))
	for i := range specs {
		p := &specs[i]
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("process %d: duplicate id", p.ID))
		}
		seen[p.ID] = true
		if p.BurstTime <= 0 {
			errs = append(errs, fmt.Errorf("process %d: burst time must be greater than 0, got %d", p.ID, p.BurstTime))
		}
		if p.ArrivalTime < 0 {
			errs = append(errs, fmt.Errorf("process %d: arrival time must be >= 0, got %d", p.ID, p.ArrivalTime))
		}
		if p.Priority < 0 {
			errs = append(errs, fmt.Errorf("process %d: priority must be >= 0, got %d", p.ID, p.Priority))
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("P%d", p.ID)
		}
		if p.Color == "" {
			p.Color = simulator.ColorFor(i)
		}
	}
	return errors.Join(errs...)
}

// LoadFile reads a workload, choosing the decoder by extension:
// .yaml/.yml, .json or .csv.
func LoadFile(path string) (*Workload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var w *Workload
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		w, err = DecodeYAML(f)
	case ".json":
		w, err = DecodeJSON(f)
	case ".csv":
		w, err = DecodeCSV(f)
	default:
		return nil, fmt.Errorf("%s: unsupported workload format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// DecodeYAML parses and validates a YAML workload.
func DecodeYAML(r io.Reader) (*Workload, error) {
	var w Workload
	if err := yaml.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return validated(&w)
}

// DecodeJSON parses and validates a JSON workload.
func DecodeJSON(r io.Reader) (*Workload, error) {
	var w Workload
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return validated(&w)
}

// csvColumns are the recognised CSV header names. id and burstTime are required.
var csvColumns = []string{"id", "name", "arrivalTime", "burstTime", "priority", "color"}

// DecodeCSV parses a CSV workload with a header row naming the columns.
func DecodeCSV(r io.Reader) (*Workload, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("parse csv: missing header")
	}

	col := make(map[string]int)
	for i, h := range records[0] {
		col[strings.TrimSpace(h)] = i
	}
	for _, req := range []string{"id", "burstTime"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("parse csv: missing %q column (known columns: %s)", req, strings.Join(csvColumns, ", "))
		}
	}

	w := &Workload{Processes: make([]simulator.ProcessSpec, 0, len(records)-1)}
	for line, rec := range records[1:] {
		field := func(name string) string {
			if i, ok := col[name]; ok && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		number := func(name string) (int, error) {
			s := field(name)
			if s == "" {
				return 0, nil
			}
			n, err := strconv.Atoi(s)
			if err != nil {
				return 0, fmt.Errorf("parse csv: line %d: %s: %w", line+2, name, err)
			}
			return n, nil
		}

		var p simulator.ProcessSpec
		for _, f := range []struct {
			name string
			dst  *int
		}{
			{"id", &p.ID},
			{"arrivalTime", &p.ArrivalTime},
			{"burstTime", &p.BurstTime},
			{"priority", &p.Priority},
		} {
			if *f.dst, err = number(f.name); err != nil {
				return nil, err
			}
		}
		p.Name = field("name")
		p.Color = field("color")
		w.Processes = append(w.Processes, p)
	}
	return validated(w)
}

func validated(w *Workload) (*Workload, error) {
	if err := Validate(w.Processes); err != nil {
		return nil, err
	}
	return w, nil
}
