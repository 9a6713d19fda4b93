package executor

import (
	"bufio"
	"io"

	"github.com/sirupsen/logrus"
)

// LogLines reads r until EOF and logs every line at the given level,
// prefixed with the source name.
func LogLines(r io.Reader, level logrus.Level, source string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		logrus.StandardLogger().Logf(level, "%s: %s", source, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logrus.Errorf("%s: reading output failed: %q", source, err.Error())
	}
}
