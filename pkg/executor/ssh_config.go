package executor

import (
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DefaultSSHPort is used when no port is configured for the R host.
const DefaultSSHPort = 22

const knownHostsFile = "known_hosts"

// keyFiles are the private keys tried in <home>/.ssh, in order.
var keyFiles = []string{"id_ed25519", "id_ecdsa", "id_rsa"}

// SSHConfig is everything needed to open sessions on the R host.
type SSHConfig struct {
	ClientConfig *ssh.ClientConfig
	Host         string
	Port         int
}

// loadSigners parses every unencrypted key found in sshDir.
func loadSigners(sshDir string) ([]ssh.Signer, error) {
	var signers []ssh.Signer
	for _, name := range keyFiles {
		keyPath := filepath.Join(sshDir, name)
		buffer, err := ioutil.ReadFile(keyPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read ssh key %q", keyPath)
		}

		signer, err := ssh.ParsePrivateKey(buffer)
		if err != nil {
			log.Debugf("Skipping ssh key %s: %v", keyPath, err)
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) == 0 {
		return nil, errors.Errorf("no usable ssh key found in %s", sshDir)
	}
	return signers, nil
}

// NewSSHConfig authenticates as user with the keys in the user's ~/.ssh and
// checks the host against ~/.ssh/known_hosts.
func NewSSHConfig(host string, port int, user *user.User) (*SSHConfig, error) {
	sshDir := filepath.Join(user.HomeDir, ".ssh")

	signers, err := loadSigners(sshDir)
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := knownhosts.New(filepath.Join(sshDir, knownHostsFile))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load known hosts")
	}

	return &SSHConfig{
		ClientConfig: &ssh.ClientConfig{
			User:            user.Username,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signers...)},
			HostKeyCallback: hostKeyCallback,
		},
		Host: host,
		Port: port,
	}, nil
}
