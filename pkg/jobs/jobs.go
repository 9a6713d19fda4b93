// Package jobs runs long interpreter work off the calling goroutine and
// reports its completion. Jobs cannot be cancelled, have no timeout of their
// own and are never retried.
package jobs

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// State of a job.
type State int

const (
	// RUNNING means fn has not returned yet.
	RUNNING State = iota
	// SUCCEEDED means fn returned nil.
	SUCCEEDED
	// FAILED means fn returned an error or panicked.
	FAILED
)

func (s State) String() string {
	switch s {
	case RUNNING:
		return "running"
	case SUCCEEDED:
		return "succeeded"
	}
	return "failed"
}

// Handle follows one job.
type Handle struct {
	name string

	// waitEndChannel is closed when fn returns. Nothing is ever sent on it.
	waitEndChannel chan struct{}

	mutex     sync.Mutex
	err       error
	callbacks []func(error)
}

// Run starts fn on a new goroutine.
func Run(name string, fn func() error) *Handle {
	h := &Handle{
		name:           name,
		waitEndChannel: make(chan struct{}),
	}

	log.Debugf("Starting job %q", name)
	go h.run(fn)
	return h
}

func (h *Handle) run(fn func() error) {
	err := h.call(fn)

	h.mutex.Lock()
	h.err = err
	callbacks := h.callbacks
	h.callbacks = nil
	close(h.waitEndChannel)
	h.mutex.Unlock()

	if err != nil {
		log.Errorf("Job %q failed: %v", h.name, err)
	} else {
		log.Debugf("Job %q finished", h.name)
	}
	for _, callback := range callbacks {
		callback(err)
	}
}

func (h *Handle) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("job %q panicked: %v", h.name, r)
		}
	}()
	return fn()
}

// Name returns the name the job was started with.
func (h *Handle) Name() string {
	return h.name
}

// Done returns a channel which is closed when the job ends.
func (h *Handle) Done() <-chan struct{} {
	return h.waitEndChannel
}

// Wait waits for the job up to timeout and reports whether it ended. Zero
// timeout waits forever.
func (h *Handle) Wait(timeout time.Duration) bool {
	var timeoutChannel <-chan time.Time
	if timeout != 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutChannel = timer.C
	}

	select {
	case <-h.waitEndChannel:
		return true
	case <-timeoutChannel:
		return false
	}
}

// Status returns the state of the job.
func (h *Handle) Status() State {
	select {
	case <-h.waitEndChannel:
	default:
		return RUNNING
	}
	if h.Err() != nil {
		return FAILED
	}
	return SUCCEEDED
}

// Err returns the error of an ended job, or nil.
func (h *Handle) Err() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.err
}

// OnComplete registers callback to be called with the job's error once it
// ends. Callbacks run on the job's goroutine in registration order; a
// callback registered after the end runs immediately on the caller's
// goroutine.
func (h *Handle) OnComplete(callback func(error)) {
	h.mutex.Lock()
	select {
	case <-h.waitEndChannel:
		err := h.err
		h.mutex.Unlock()
		callback(err)
		return
	default:
	}
	h.callbacks = append(h.callbacks, callback)
	h.mutex.Unlock()
}

func (h *Handle) String() string {
	return fmt.Sprintf("job %q (%s)", h.name, h.Status())
}
