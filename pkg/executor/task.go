package executor

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// killTimeout bounds how long Stop waits for a killed task to be reaped.
const killTimeout = 5 * time.Second

// streams holds the standard streams of a started task.
type streams struct {
	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader
}

// waitState tracks termination of a task. waitEndChannel is closed once the
// process has been reaped; it never carries a message.
type waitState struct {
	waitEndChannel chan struct{}

	mutex    sync.Mutex
	exitCode int
}

func newWaitState() *waitState {
	return &waitState{waitEndChannel: make(chan struct{}), exitCode: -1}
}

// complete records the exit code and releases every waiter.
func (w *waitState) complete(exitCode int) {
	w.mutex.Lock()
	w.exitCode = exitCode
	w.mutex.Unlock()
	close(w.waitEndChannel)
}

// isTerminated checks if waitEndChannel is closed.
func (w *waitState) isTerminated() bool {
	select {
	case <-w.waitEndChannel:
		return true
	default:
		return false
	}
}

func (w *waitState) status() TaskState {
	if w.isTerminated() {
		return TERMINATED
	}
	return RUNNING
}

func (w *waitState) code() (int, error) {
	if !w.isTerminated() {
		return -1, errors.New("task is still running")
	}
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.exitCode, nil
}

func (w *waitState) wait(timeout time.Duration) bool {
	if w.isTerminated() {
		return true
	}

	var timeoutChannel <-chan time.Time
	if timeout != 0 {
		timeoutChannel = time.After(timeout)
	}

	select {
	case <-w.waitEndChannel:
		return true
	case <-timeoutChannel:
		return false
	}
}

// stop runs kill unless the task already ended and waits for it to be reaped.
func (w *waitState) stop(kill func() error) error {
	if w.isTerminated() {
		return nil
	}
	if err := kill(); err != nil {
		return errors.Wrap(err, "cannot kill task")
	}
	if !w.wait(killTimeout) {
		return errors.New("cannot terminate task")
	}
	return nil
}
