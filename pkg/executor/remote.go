package executor

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// Remote provisioning is responsible for providing the execution environment
// on remote machine via ssh.
type Remote struct {
	sshConfig *SSHConfig
}

// NewRemote returns a Remote instance.
func NewRemote(sshConfig *SSHConfig) Remote {
	return Remote{sshConfig: sshConfig}
}

// Name returns user-friendly name of executor.
func (remote Remote) Name() string {
	return "Remote Executor on " + remote.sshConfig.Host
}

// Execute runs the command given as input in a new ssh session.
// No pseudo terminal is requested so input is not echoed back and stderr
// stays separate from stdout.
func (remote Remote) Execute(command string) (TaskHandle, error) {
	address := fmt.Sprintf("%s:%d", remote.sshConfig.Host, remote.sshConfig.Port)
	log.Debugf("Starting %q on %s", command, address)

	connection, err := ssh.Dial("tcp", address, remote.sshConfig.ClientConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to %s", address)
	}

	session, err := connection.NewSession()
	if err != nil {
		connection.Close()
		return nil, errors.Wrapf(err, "cannot open session on %s", address)
	}

	closeAll := func() {
		session.Close()
		connection.Close()
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		closeAll()
		return nil, errors.Wrap(err, "cannot create stdin pipe")
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		closeAll()
		return nil, errors.Wrap(err, "cannot create stdout pipe")
	}
	stderr, err := session.StderrPipe()
	if err != nil {
		closeAll()
		return nil, errors.Wrap(err, "cannot create stderr pipe")
	}

	if err := session.Start(command); err != nil {
		closeAll()
		return nil, errors.Wrapf(err, "cannot start %q on %s", command, address)
	}

	task := &remoteTask{
		streams:   streams{stdin: stdin, stdout: stdout, stderr: stderr},
		waitState: newWaitState(),
		session:   session,
		host:      remote.sshConfig.Host,
	}

	go func() {
		defer closeAll()

		exitCode := 0
		err := session.Wait()
		if err != nil {
			switch e := err.(type) {
			case *ssh.ExitError:
				exitCode = e.Waitmsg.ExitStatus()
			default:
				log.Errorf("waiting for %q on %s failed: %v", command, address, err)
				exitCode = -1
			}
		}

		log.Debugf("Ended %q on %s with status code %d", command, address, exitCode)
		task.complete(exitCode)
	}()

	return task, nil
}

// remoteTask implements TaskHandle interface.
type remoteTask struct {
	streams
	*waitState
	session *ssh.Session
	host    string
}

func (t *remoteTask) Stdin() io.WriteCloser { return t.stdin }

func (t *remoteTask) Stdout() io.Reader { return t.stdout }

func (t *remoteTask) Stderr() io.Reader { return t.stderr }

// Stop sends SIGKILL through the session and closes it.
func (t *remoteTask) Stop() error {
	return t.stop(func() error {
		if err := t.session.Signal(ssh.SIGKILL); err != nil {
			log.Debugf("cannot signal task on %s, closing session: %v", t.host, err)
		}
		// Closing the session ends Wait even if the server ignores signals.
		return t.session.Close()
	})
}

func (t *remoteTask) Status() TaskState { return t.status() }

func (t *remoteTask) ExitCode() (int, error) { return t.code() }

func (t *remoteTask) Wait(timeout time.Duration) bool { return t.wait(timeout) }

func (t *remoteTask) Address() string { return t.host }
