// Package prefs stores user preferences in a YAML file.
//
// Preferences are loaded explicitly and passed to whoever needs them; there
// is no process wide instance.
package prefs

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// MaxRecentFiles bounds the recent files list.
const MaxRecentFiles = 10

type document struct {
	StartingDirectory string   `yaml:"starting_directory,omitempty"`
	RecentFiles       []string `yaml:"recent_files,omitempty"`
}

// Preferences is a preferences file and its contents. It is safe for
// concurrent use.
type Preferences struct {
	path string

	mutex    sync.Mutex
	document document
}

// Load reads the preferences at path. A missing file gives empty preferences
// which Save creates.
func Load(path string) (*Preferences, error) {
	p := &Preferences{path: path}

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		log.Debugf("No preferences at %s, using defaults", path)
		return p, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read preferences %s", path)
	}
	if err := yaml.Unmarshal(data, &p.document); err != nil {
		return nil, errors.Wrapf(err, "cannot parse preferences %s", path)
	}
	return p, nil
}

// DefaultPath returns the preferences file in the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jmaanova.yaml"
	}
	return filepath.Join(home, ".jmaanova.yaml")
}

// Path returns the file the preferences are saved to.
func (p *Preferences) Path() string {
	return p.path
}

// Save writes the preferences to a temporary file next to the target and
// renames it into place.
func (p *Preferences) Save() error {
	p.mutex.Lock()
	data, err := yaml.Marshal(&p.document)
	p.mutex.Unlock()
	if err != nil {
		return errors.Wrap(err, "cannot encode preferences")
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "cannot create %s", dir)
	}
	tmp, err := ioutil.TempFile(dir, filepath.Base(p.path)+".tmp")
	if err != nil {
		return errors.Wrap(err, "cannot create temporary preferences file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "cannot write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "cannot close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return errors.Wrapf(err, "cannot replace %s", p.path)
	}
	return nil
}

// StartingDirectory returns the directory file choosers open in.
func (p *Preferences) StartingDirectory() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.document.StartingDirectory
}

// SetStartingDirectory changes the starting directory.
func (p *Preferences) SetStartingDirectory(dir string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.document.StartingDirectory = dir
}

// RecentFiles returns the recently used files, most recent first.
func (p *Preferences) RecentFiles() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]string{}, p.document.RecentFiles...)
}

// AddRecentFile moves path to the front of the recent files, dropping the
// oldest entry beyond MaxRecentFiles.
func (p *Preferences) AddRecentFile(path string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	recent := []string{path}
	for _, existing := range p.document.RecentFiles {
		if existing != path {
			recent = append(recent, existing)
		}
	}
	if len(recent) > MaxRecentFiles {
		recent = recent[:MaxRecentFiles]
	}
	p.document.RecentFiles = recent
}
