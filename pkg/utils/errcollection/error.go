// Package errcollection gathers the errors of a multi step cleanup so every
// step runs and all failures are reported together.
package errcollection

import (
	"strings"

	"github.com/pkg/errors"
)

const delimiter = "; "

// ErrorCollection is empty when its zero value is created. Nil errors are
// never stored.
type ErrorCollection struct {
	errorList []error
}

// Add stores err unless it is nil.
func (e *ErrorCollection) Add(err error) {
	if err != nil {
		e.errorList = append(e.errorList, err)
	}
}

// Len returns the number of stored errors.
func (e *ErrorCollection) Len() int {
	return len(e.errorList)
}

// GetErrIfAny returns nil for an empty collection, the error itself for a
// single one and otherwise one error joining every message with "; ".
func (e *ErrorCollection) GetErrIfAny() error {
	switch len(e.errorList) {
	case 0:
		return nil
	case 1:
		return e.errorList[0]
	}

	messages := make([]string, 0, len(e.errorList))
	for _, err := range e.errorList {
		messages = append(messages, err.Error())
	}
	return errors.New(strings.Join(messages, delimiter))
}
