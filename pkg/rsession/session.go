package rsession

import (
	"bufio"
	"io"
	"sync"
	"time"

	"github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/commands"
	"github.com/jmaanova/jmaanova/pkg/executor"
	"github.com/jmaanova/jmaanova/pkg/utils/errcollection"
)

// Session is an Engine backed by an interpreter process.
//
// The interpreter evaluates one statement at a time, so the session holds a
// mutex for the whole request/reply exchange. There is no queueing beyond
// that mutex, no evaluation timeout and no cancellation: a statement runs
// until R returns.
type Session struct {
	config Config
	task   executor.TaskHandle
	stdin  io.WriteCloser
	stdout *bufio.Reader

	mutex  sync.Mutex
	closed bool
}

// Start launches R with exec, installs the evaluation helpers, loads the
// configured packages and checks the interpreter answers within
// config.StartupTimeout.
func Start(exec executor.Executor, config Config) (*Session, error) {
	command := config.command()
	task, err := exec.Execute(command)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot start R with %q on %s", command, exec.Name())
	}

	go executor.LogLines(task.Stderr(), log.WarnLevel, "R stderr")

	s := &Session{
		config: config,
		task:   task,
		stdin:  task.Stdin(),
		stdout: bufio.NewReader(task.Stdout()),
	}

	ready := make(chan error, 1)
	go func() {
		ready <- s.initialize()
	}()

	var timeout <-chan time.Time
	if config.StartupTimeout > 0 {
		timeout = time.After(config.StartupTimeout)
	}

	select {
	case err = <-ready:
	case <-timeout:
		err = errors.Errorf("R did not answer within %s", config.StartupTimeout)
	}
	if err != nil {
		if stopErr := task.Stop(); stopErr != nil {
			log.Errorf("cannot stop R after failed start: %v", stopErr)
		}
		return nil, err
	}
	return s, nil
}

func (s *Session) initialize() error {
	if _, err := io.WriteString(s.stdin, prelude); err != nil {
		return errors.Wrap(err, "cannot send prelude to R")
	}

	version, err := s.Eval("R.version.string")
	if err != nil {
		return errors.Wrap(err, "R handshake failed")
	}
	versionString, err := version.AsString()
	if err != nil {
		return errors.Wrap(err, "R handshake failed")
	}
	log.Infof("Connected to %s on %s", versionString, s.task.Address())

	for _, pkg := range s.config.Packages {
		if pkg == "" {
			continue
		}
		if err := s.VoidEval(commands.LoadLibrary{Package: pkg}.Command()); err != nil {
			return errors.Wrapf(err, "cannot load R package %q", pkg)
		}
	}
	return nil
}

// Eval implements Engine.
func (s *Session) Eval(statement string) (*Value, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil, errors.New("R session is closed")
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, errors.Wrap(err, "cannot generate request id")
	}
	nonce := id.String()

	log.Debugf("R> %s", statement)
	if _, err := io.WriteString(s.stdin, request(statement, nonce)); err != nil {
		return nil, errors.Wrapf(err, "cannot send %q to R", statement)
	}

	value, err := readReply(s.stdout, statement, nonce)
	if err != nil {
		if IsEvalError(err) {
			log.Errorf("%v", err)
		}
		return nil, err
	}
	return value, nil
}

// VoidEval implements Engine.
func (s *Session) VoidEval(statement string) error {
	_, err := s.Eval(statement)
	return err
}

// Address is where the interpreter runs.
func (s *Session) Address() string {
	return s.task.Address()
}

// Close asks R to quit and kills it when it does not within
// config.ShutdownTimeout. Interpreter state is lost.
func (s *Session) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errCollection errcollection.ErrorCollection
	if _, err := io.WriteString(s.stdin, "q(\"no\")\n"); err != nil {
		log.Debugf("cannot send quit to R: %v", err)
	}
	if err := s.stdin.Close(); err != nil {
		log.Debugf("cannot close R stdin: %v", err)
	}

	if s.config.ShutdownTimeout <= 0 || !s.task.Wait(s.config.ShutdownTimeout) {
		errCollection.Add(s.task.Stop())
	}
	if exitCode, err := s.task.ExitCode(); err != nil {
		errCollection.Add(err)
	} else if exitCode != 0 {
		log.Warnf("R exited with status %d", exitCode)
	}
	return errCollection.GetErrIfAny()
}

var _ Engine = &Session{}
