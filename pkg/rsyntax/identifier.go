package rsyntax

import (
	"fmt"
	"regexp"
	"strings"
)

// SyntaxError is returned when a readable name cannot be turned into an R
// identifier.
type SyntaxError struct {
	Name   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%q is not a valid R identifier: %s", e.Name, e.Reason)
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	identifierBody = regexp.MustCompile(`^[A-Za-z0-9._]+$`)
	reservedWords  = map[string]bool{
		"if": true, "else": true, "repeat": true, "while": true, "function": true,
		"for": true, "next": true, "break": true, "TRUE": true, "FALSE": true,
		"NULL": true, "Inf": true, "NaN": true, "NA": true, "NA_integer_": true,
		"NA_real_": true, "NA_character_": true, "NA_complex_": true, "in": true,
		"...": true,
	}
)

// IsValidIdentifier reports whether s can be used unquoted as an R name.
func IsValidIdentifier(s string) bool {
	return identifierProblem(s) == ""
}

func identifierProblem(s string) string {
	if s == "" {
		return "name is empty"
	}
	if !identifierBody.MatchString(s) {
		return "only letters, digits, '.' and '_' are allowed"
	}
	first := s[0]
	switch {
	case first >= '0' && first <= '9':
		return "name must not start with a digit"
	case first == '_':
		return "name must not start with '_'"
	case first == '.' && len(s) > 1 && s[1] >= '0' && s[1] <= '9':
		return "name must not start with '.' followed by a digit"
	}
	if reservedWords[s] || isDotDotNumber(s) {
		return "name is a reserved word"
	}
	return ""
}

func isDotDotNumber(s string) bool {
	if !strings.HasPrefix(s, "..") || len(s) == 2 {
		return false
	}
	for _, c := range s[2:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ToIdentifier converts a name typed by a user into an R identifier.
// Surrounding whitespace is dropped and inner whitespace runs become '.'.
func ToIdentifier(readable string) (string, error) {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(readable), ".")
	if problem := identifierProblem(name); problem != "" {
		return "", &SyntaxError{Name: readable, Reason: problem}
	}
	return name, nil
}

// ToReadable is the display form of an identifier created by ToIdentifier.
func ToReadable(identifier string) string {
	return strings.Replace(identifier, ".", " ", -1)
}
