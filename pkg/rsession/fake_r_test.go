package rsession

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jmaanova/jmaanova/pkg/executor"
)

// fakeReply is what the fake interpreter answers for one statement.
type fakeReply struct {
	kind   string
	class  string
	values []string
	// console is printed before the reply frame.
	console string
}

// fakeR speaks the frame protocol over pipes without an R installation.
type fakeR struct {
	stdinReader  *io.PipeReader
	stdinWriter  *io.PipeWriter
	stdoutReader *io.PipeReader
	stdoutWriter *io.PipeWriter

	mutex      sync.Mutex
	replies    map[string]fakeReply
	statements []string
	sawPrelude bool
	silent     bool

	done     chan struct{}
	doneOnce sync.Once
	exitCode int
}

func newFakeR() *fakeR {
	f := &fakeR{
		replies: map[string]fakeReply{
			"R.version.string": {kind: "character", class: "character", values: []string{`"R version 4.3.1 (2023-06-16)"`}},
		},
		done: make(chan struct{}),
	}
	f.stdinReader, f.stdinWriter = io.Pipe()
	f.stdoutReader, f.stdoutWriter = io.Pipe()
	go f.serve()
	return f
}

func (f *fakeR) on(statement string, reply fakeReply) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.replies[statement] = reply
}

// mute stops the fake from answering.
func (f *fakeR) mute() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.silent = true
}

func (f *fakeR) received() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string{}, f.statements...)
}

func (f *fakeR) terminate(exitCode int) {
	f.doneOnce.Do(func() {
		f.exitCode = exitCode
		f.stdoutWriter.Close()
		f.stdinReader.Close()
		close(f.done)
	})
}

func (f *fakeR) serve() {
	reader := bufio.NewReader(f.stdinReader)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			f.terminate(0)
			return
		}
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, ".jm.eval <- function"):
			f.mutex.Lock()
			f.sawPrelude = true
			f.mutex.Unlock()
		case strings.HasPrefix(line, ".jm.eval("):
			statement, nonce, err := parseRequest(line)
			if err != nil {
				panic(err)
			}
			f.answer(statement, nonce)
		case line == `q("no")`:
			f.terminate(0)
			return
		}
	}
}

func (f *fakeR) answer(statement, nonce string) {
	f.mutex.Lock()
	f.statements = append(f.statements, statement)
	reply, ok := f.replies[statement]
	silent := f.silent
	f.mutex.Unlock()

	if silent {
		return
	}
	if !ok {
		reply = fakeReply{kind: "null", class: "NULL"}
	}

	var b strings.Builder
	b.WriteString(reply.console)
	fmt.Fprintf(&b, "\n@@JM-BEGIN %s\n", nonce)
	fmt.Fprintf(&b, "%s %s %d\n", reply.kind, reply.class, len(reply.values))
	for _, v := range reply.values {
		b.WriteString(v + "\n")
	}
	fmt.Fprintf(&b, "@@JM-END %s\n", nonce)
	f.stdoutWriter.Write([]byte(b.String()))
}

// parseRequest extracts both string literals of .jm.eval("...", "...").
func parseRequest(line string) (statement, nonce string, err error) {
	rest := strings.TrimSuffix(strings.TrimPrefix(line, ".jm.eval("), ")")
	statement, rest, err = nextLiteral(rest)
	if err != nil {
		return "", "", err
	}
	nonce, _, err = nextLiteral(strings.TrimPrefix(rest, ", "))
	return statement, nonce, err
}

func nextLiteral(s string) (string, string, error) {
	if !strings.HasPrefix(s, `"`) {
		return "", "", errors.Errorf("expected string literal in %q", s)
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			value, err := strconv.Unquote(s[:i+1])
			return value, s[i+1:], err
		}
	}
	return "", "", errors.Errorf("unterminated literal in %q", s)
}

// Task handle side.

func (f *fakeR) Stdin() io.WriteCloser { return f.stdinWriter }

func (f *fakeR) Stdout() io.Reader { return f.stdoutReader }

func (f *fakeR) Stderr() io.Reader { return strings.NewReader("") }

func (f *fakeR) Stop() error {
	f.terminate(-9)
	return nil
}

func (f *fakeR) Status() executor.TaskState {
	select {
	case <-f.done:
		return executor.TERMINATED
	default:
		return executor.RUNNING
	}
}

func (f *fakeR) ExitCode() (int, error) {
	select {
	case <-f.done:
		return f.exitCode, nil
	default:
		return -1, errors.New("task is still running")
	}
}

func (f *fakeR) Wait(timeout time.Duration) bool {
	var timeoutChannel <-chan time.Time
	if timeout != 0 {
		timeoutChannel = time.After(timeout)
	}
	select {
	case <-f.done:
		return true
	case <-timeoutChannel:
		return false
	}
}

func (f *fakeR) Address() string { return "fake" }
