package conf

import (
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"
)

const stringListDelimiter = ","

// StringListVar is a kingpin value holding a list given as delimited items.
// Repeating the flag appends: `-f A,B -f C` yields [A B C]. Items already in
// the list are skipped, so parsing the same environment twice is harmless.
type StringListVar []string

// Set implements kingpin.Value.
func (s *StringListVar) Set(value string) error {
	for _, item := range strings.Split(value, stringListDelimiter) {
		item = strings.TrimSpace(item)
		if item == "" || s.contains(item) {
			continue
		}
		*s = append(*s, item)
	}
	return nil
}

func (s *StringListVar) contains(item string) bool {
	for _, existing := range *s {
		if existing == item {
			return true
		}
	}
	return false
}

// Get implements kingpin.Getter.
func (s *StringListVar) Get() interface{} {
	return []string(*s)
}

// String implements kingpin.Value.
func (s *StringListVar) String() string {
	return strings.Join(*s, stringListDelimiter)
}

// IsCumulative marks the flag as repeatable for kingpin.
func (s *StringListVar) IsCumulative() bool {
	return true
}

// StringList binds a list value to kingpin settings.
func StringList(s kingpin.Settings) (target *[]string) {
	target = new([]string)
	s.SetValue((*StringListVar)(target))
	return
}
