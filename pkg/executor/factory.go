package executor

import (
	"os/user"

	"github.com/pkg/errors"
)

// IsAddrLocal returns true when given address points to local machine.
func IsAddrLocal(addr string) bool {
	return addr == "" || addr == "127.0.0.1" || addr == "localhost"
}

// CreateExecutor is factory for executor depending on host provided. In case of localhost it returns
// Local executor otherwise it returns Remote with default ssh config for current user.
func CreateExecutor(host string, port int) (Executor, error) {
	// NOTE: We don't want to ssh on localhost if not needed.
	if IsAddrLocal(host) {
		return NewLocal(), nil
	}

	user, err := user.Current()
	if err != nil {
		return nil, errors.Wrap(err, "cannot determine current user")
	}

	if port == 0 {
		port = DefaultSSHPort
	}
	sshConfig, err := NewSSHConfig(host, port, user)
	if err != nil {
		return nil, err
	}

	return NewRemote(sshConfig), nil
}
