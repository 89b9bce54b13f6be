// Package export renders finished processes and summary metrics as JSON or CSV.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/miretskiy/schedsim/simulator"
	"github.com/rs/xid"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "json" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("invalid export format: %q (must be json or csv)", s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// csvHeader is the exact header row of the CSV export.
var csvHeader = []string{
	"ID", "Name", "Arrival Time", "Burst Time", "Priority",
	"Finish Time", "Turnaround Time", "Waiting Time", "Response Time",
}

type document struct {
	Processes      []simulator.ProcessRuntime `json:"processes"`
	SummaryMetrics simulator.AggregateMetrics `json:"summaryMetrics"`
}

// Finished returns the processes of state that have completed, in registry order.
func Finished(state *simulator.State) []simulator.ProcessRuntime {
	out := make([]simulator.ProcessRuntime, 0, len(state.Processes))
	for _, p := range state.Processes {
		if p.IsFinished() {
			out = append(out, p)
		}
	}
	return out
}

// WriteJSON writes {"processes": [...], "summaryMetrics": {...}} indented by
// two spaces, with no trailing newline.
func WriteJSON(w io.Writer, state *simulator.State) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{
		Processes:      Finished(state),
		SummaryMetrics: state.Metrics,
	}); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// WriteCSV writes one row per finished process. Fields are joined with bare
// commas and lines with "\n"; there is no quoting and no trailing newline.
func WriteCSV(w io.Writer, state *simulator.State) error {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, p := range Finished(state) {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			strconv.Itoa(p.ID),
			p.Name,
			strconv.Itoa(p.ArrivalTime),
			strconv.Itoa(p.BurstTime),
			strconv.Itoa(p.Priority),
			optInt(p.FinishTime),
			strconv.Itoa(p.TurnaroundTime),
			strconv.Itoa(p.WaitingTime),
			strconv.Itoa(p.ResponseTime),
		}, ","))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Write encodes state in the given format.
func Write(w io.Writer, format Format, state *simulator.State) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, state)
	case FormatCSV:
		return WriteCSV(w, state)
	default:
		return fmt.Errorf("invalid export format: %q", format)
	}
}

// WriteFile writes the export to dir/base.<format> and returns the path.
// An empty base gets a generated "schedsim_<id>" name. Existing files are
// never overwritten.
func WriteFile(dir, base string, format Format, state *simulator.State) (string, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return "", err
	}
	if base == "" {
		base = "schedsim_" + xid.New().String()
	}
	path := filepath.Join(dir, base+"."+string(format))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create export %s: %w", path, err)
	}
	if err := Write(f, format, state); err != nil {
		f.Close()
		return "", fmt.Errorf("write export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
