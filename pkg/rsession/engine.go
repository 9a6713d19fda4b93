// Package rsession evaluates R source text in a long running interpreter and
// decodes the results into Go values.
package rsession

import (
	"fmt"

	"github.com/pkg/errors"
)

// Engine evaluates R statements. The interpreter behind it is single
// threaded; implementations serialize callers.
type Engine interface {
	// Eval evaluates statement and returns the value of its last expression.
	Eval(statement string) (*Value, error)
	// VoidEval evaluates statement and discards its value.
	VoidEval(statement string) error
}

// EvalError is an error the interpreter raised while evaluating a statement.
type EvalError struct {
	Statement string
	Message   string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluation of %q failed: %s", e.Statement, e.Message)
}

// IsEvalError reports whether err, or its cause, came from the interpreter.
func IsEvalError(err error) bool {
	_, ok := errors.Cause(err).(*EvalError)
	return ok
}
