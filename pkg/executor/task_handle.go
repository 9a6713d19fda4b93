package executor

import (
	"io"
	"time"
)

// TaskState is an enum presenting current task state.
type TaskState int

const (
	// RUNNING task state means that task is still running.
	RUNNING TaskState = iota
	// TERMINATED task state means that task completed or stopped.
	TERMINATED
)

func (s TaskState) String() string {
	if s == RUNNING {
		return "running"
	}
	return "terminated"
}

// TaskHandle represents a process which can be fed, read, stopped or monitored.
type TaskHandle interface {
	// Stdin returns the writer connected to the task's standard input.
	Stdin() io.WriteCloser
	// Stdout returns the reader connected to the task's standard output.
	// It reaches EOF when the task terminates.
	Stdout() io.Reader
	// Stderr returns the reader connected to the task's standard error.
	Stderr() io.Reader
	// Stop kills the task. Stopping a terminated task is a no-op.
	Stop() error
	// Status returns a state of the task.
	Status() TaskState
	// ExitCode returns a exitCode. If task is not terminated it returns error.
	ExitCode() (int, error)
	// Wait is a helper for waiting with a given timeout time.
	// Zero timeout waits forever. It returns true if task is terminated.
	Wait(timeout time.Duration) bool
	// Address returns address where task was located.
	Address() string
}
