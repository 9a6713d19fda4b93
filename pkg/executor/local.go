package executor

import (
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Local provisioning is responsible for providing the execution environment
// on local machine via exec.Command.
// It runs command as current user.
type Local struct{}

// NewLocal returns a Local instance.
func NewLocal() Local {
	return Local{}
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local Executor"
}

// Execute runs the command given as input.
// Returned TaskHandle is able to feed, stop & monitor the provisioned process.
func (l Local) Execute(command string) (TaskHandle, error) {
	log.Debug("Starting ", command)

	cmd := exec.Command("sh", "-c", command)
	// It is important to set additional Process Group ID for parent process and his children
	// to have ability to kill all the children processes.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create stdin pipe for %q", command)
	}

	// Output goes through os pipes owned by us, so cmd.Wait never closes a
	// reader somebody is still draining.
	stdoutReader, stdoutWriter, err := os.Pipe()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create stdout pipe for %q", command)
	}
	stderrReader, stderrWriter, err := os.Pipe()
	if err != nil {
		stdoutReader.Close()
		stdoutWriter.Close()
		return nil, errors.Wrapf(err, "cannot create stderr pipe for %q", command)
	}
	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err = cmd.Start()
	stdoutWriter.Close()
	stderrWriter.Close()
	if err != nil {
		stdoutReader.Close()
		stderrReader.Close()
		return nil, errors.Wrapf(err, "cannot start %q", command)
	}

	log.Debug("Started with pid ", cmd.Process.Pid)

	task := &localTask{
		streams:   streams{stdin: stdin, stdout: stdoutReader, stderr: stderrReader},
		waitState: newWaitState(),
		pid:       cmd.Process.Pid,
	}

	// Wait for local task in go routine.
	go func() {
		// NOTE: Wait() returns an error. We grab the process state in any case
		// (success or failure) below, so the error object matters less in the
		// status handling for now.
		cmd.Wait()

		exitCode := -1
		if cmd.ProcessState != nil {
			status := cmd.ProcessState.Sys().(syscall.WaitStatus)
			if status.Exited() {
				exitCode = status.ExitStatus()
			} else {
				// Show what signal caused the termination.
				exitCode = -int(status.Signal())
			}
		}

		log.Debugf("Ended %q with status code %d", command, exitCode)
		task.complete(exitCode)
	}()

	return task, nil
}

// localTask implements TaskHandle interface.
type localTask struct {
	streams
	*waitState
	pid int
}

func (t *localTask) Stdin() io.WriteCloser { return t.stdin }

func (t *localTask) Stdout() io.Reader { return t.stdout }

func (t *localTask) Stderr() io.Reader { return t.stderr }

// Stop sends SIGKILL to the whole process group.
func (t *localTask) Stop() error {
	return t.stop(func() error {
		// The kill syscall interprets a negated PID N as the process group N belongs to.
		log.Debug("Sending ", syscall.SIGKILL, " to PID ", -t.pid)
		return syscall.Kill(-t.pid, syscall.SIGKILL)
	})
}

func (t *localTask) Status() TaskState { return t.status() }

func (t *localTask) ExitCode() (int, error) { return t.code() }

func (t *localTask) Wait(timeout time.Duration) bool { return t.wait(timeout) }

func (t *localTask) Address() string { return "127.0.0.1" }
