// Package commands builds single R statements from typed option sets.
//
// Builders are plain mutable structs. Command never fails and never
// validates; callers run Validate (where provided) before asking for a
// command. When ResultName is non blank after trimming the call is wrapped
// in an assignment, otherwise the bare call is returned. Options which are
// not set are left out so R falls back to the callee's defaults.
package commands

import (
	"path/filepath"
	"strings"

	"github.com/jmaanova/jmaanova/pkg/rsyntax"
)

// Builder produces one executable R statement.
type Builder interface {
	Command() string
}

// ArrayType of a microarray experiment.
type ArrayType int

const (
	// OneColor arrays carry one intensity channel per array.
	OneColor ArrayType = iota
	// TwoColor arrays carry two dyes per array.
	TwoColor
)

// Literal returns the value read.madata expects for arrayType.
func (t ArrayType) Literal() string {
	if t == TwoColor {
		return "twoColor"
	}
	return "oneColor"
}

func (t ArrayType) String() string {
	return t.Literal()
}

// ParseArrayType accepts the R literal or a short form ("one", "two", "1", "2").
func ParseArrayType(s string) (ArrayType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "onecolor", "one", "1":
		return OneColor, true
	case "twocolor", "two", "2":
		return TwoColor, true
	}
	return OneColor, false
}

// ReplicateSummaryMethod is how technical replicates are collapsed (avgreps).
type ReplicateSummaryMethod int

const (
	// NoSummarization keeps every replicate.
	NoSummarization ReplicateSummaryMethod = 0
	// Mean averages replicates.
	Mean ReplicateSummaryMethod = 1
	// Median takes the median of replicates.
	Median ReplicateSummaryMethod = 2
)

// Literal returns the integer code read.madata expects for avgreps.
func (m ReplicateSummaryMethod) Literal() string {
	return rsyntax.Int(int(m))
}

func (m ReplicateSummaryMethod) String() string {
	switch m {
	case Mean:
		return "mean"
	case Median:
		return "median"
	}
	return "none"
}

// FileName is either a path on disk or the name of an object already living
// in the interpreter.
type FileName struct {
	Path     string
	IsObject bool
}

// File is a FileName for a path on disk.
func File(path string) FileName {
	return FileName{Path: path}
}

// Object is a FileName referring to an interpreter variable.
func Object(name string) FileName {
	return FileName{Path: name, IsObject: true}
}

// IsSet reports whether a path or object name was given.
func (f FileName) IsSet() bool {
	return strings.TrimSpace(f.Path) != ""
}

// Literal renders an object name unquoted and a path as an absolute, quoted
// string.
func (f FileName) Literal() string {
	if f.IsObject {
		return strings.TrimSpace(f.Path)
	}
	return rsyntax.String(absolute(f.Path))
}

// absolute falls back to the given path when it cannot be resolved.
func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func fileVector(paths []string) string {
	resolved := make([]string, len(paths))
	for i, p := range paths {
		resolved[i] = absolute(p)
	}
	return rsyntax.StringVector(resolved)
}
