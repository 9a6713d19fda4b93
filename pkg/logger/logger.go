// Package logger configures logrus for jmaanova commands.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jmaanova/jmaanova/pkg/conf"
)

const timestampFormat = "2006-01-02 15:04:05.000"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Initialize sets the configured log level and timestamped text output to
// stderr. When dir is not empty the log also goes to <dir>/<appName>.log,
// which the returned closer closes.
func Initialize(appName, dir string) (io.Closer, error) {
	logrus.SetLevel(conf.LogLevel())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat})

	if dir == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create log directory %s", dir)
	}
	path := filepath.Join(dir, appName+".log")
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open log file %s", path)
	}

	logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))
	logrus.Debugf("Logging to %s", path)
	return logFile, nil
}
