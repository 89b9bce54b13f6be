package simulator

import (
	"errors"
	"fmt"
)

// SimError is a custom error type for simulation errors
type SimError struct {
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("simulation error: %s", e.Message)
}

// ErrInvalidConfig creates an error for invalid configuration
func ErrInvalidConfig(msg string) error {
	return SimError{Message: fmt.Sprintf("invalid config: %s", msg)}
}

var (
	// ErrAlreadyFinished is returned when Step is called on a finished state.
	// It signals a caller bug, not a normal outcome.
	ErrAlreadyFinished = errors.New("simulation already finished")

	// ErrNoProcesses is returned when a run is requested for an empty process set.
	ErrNoProcesses = errors.New("no processes to schedule")

	// ErrTimeout is returned when a headless run does not finish within MaxTicks.
	ErrTimeout = errors.New("simulation did not finish in time")
)
