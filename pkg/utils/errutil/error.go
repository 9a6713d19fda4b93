// Package errutil terminates the program on unrecoverable errors.
package errutil

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Check logs err and exits when it is not nil. The stack trace is logged at
// debug level.
func Check(err error) {
	CheckWithContext(err, "")
}

// CheckWithContext is Check with context prepended to the message.
func CheckWithContext(err error, context string) {
	if err == nil {
		return
	}
	if context != "" {
		err = errors.WithMessage(err, context)
	}
	logrus.Debugf("%+v", err)
	logrus.Fatalf("%v", err)
}
