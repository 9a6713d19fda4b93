package conf

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

// flagType is implemented by every flag kind.
type flagType interface {
	envName() string
	clear()
}

// definedFlags holds every flag by name. Defining a name again returns the
// first definition.
var definedFlags = map[string]flagType{}

// define returns the flag registered as name, creating it on first use.
// A second definition must agree on type and default or define panics.
func define[F flagType](name string, sameDefault func(F) bool, create func() F) F {
	if previous, ok := definedFlags[name]; ok {
		typed, ok := previous.(F)
		if !ok {
			panic(fmt.Sprintf("flag %q was redefined as %s, it is a %s",
				name, reflect.TypeOf(typed), reflect.TypeOf(previous)))
		}
		if !sameDefault(typed) {
			panic(fmt.Sprintf("flag %q was redefined with different default value", name))
		}
		return typed
	}

	flag := create()
	definedFlags[name] = flag
	isEnvParsed = false
	return flag
}

// cliAndEnvFlag is an option read from the command line or, when absent
// there, from MAANOVA_<NAME>.
type cliAndEnvFlag struct {
	*kingpin.FlagClause
}

func newCliAndEnvFlag(name, description, defaultValue string) *cliAndEnvFlag {
	c := &cliAndEnvFlag{FlagClause: app.Flag(name, description)}
	c.OverrideDefaultFromEnvar(c.envName())
	if defaultValue != "" {
		c.Default(defaultValue)
	}
	return c
}

// envName is the upper cased flag name with the MAANOVA prefix, so
// "r_path" reads MAANOVA_R_PATH.
func (f *cliAndEnvFlag) envName() string {
	return envPrefix + "_" + strings.ToUpper(f.Model().Name)
}

func (f *cliAndEnvFlag) clear() {
	os.Unsetenv(f.envName())
}

// valueFlag keeps the default of a flag next to the value kingpin parses into.
// Until the first successful parse the default is reported.
type valueFlag[T any] struct {
	*cliAndEnvFlag
	defaultValue T
	value        *T
}

func (f valueFlag[T]) get() T {
	if !isEnvParsed {
		return f.defaultValue
	}
	return *f.value
}

// StringFlag represents flag with string value.
type StringFlag struct {
	valueFlag[string]
}

// NewStringFlag is a constructor of StringFlag struct.
func NewStringFlag(flagName string, description string, defaultValue string) *StringFlag {
	return define(flagName, func(f *StringFlag) bool { return f.defaultValue == defaultValue }, func() *StringFlag {
		f := &StringFlag{valueFlag[string]{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue),
			defaultValue:  defaultValue,
		}}
		f.value = f.String()
		return f
	})
}

// Value returns the parsed value, or the default before parsing.
func (s StringFlag) Value() string {
	return s.get()
}

// FileFlag is a string flag naming a file which must exist when parsed.
type FileFlag struct {
	valueFlag[string]
}

// NewFileFlag is a constructor of FileFlag struct.
func NewFileFlag(flagName string, description string, defaultValue string) *FileFlag {
	return define(flagName, func(f *FileFlag) bool { return f.defaultValue == defaultValue }, func() *FileFlag {
		f := &FileFlag{valueFlag[string]{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue),
			defaultValue:  defaultValue,
		}}
		f.value = f.ExistingFile()
		return f
	})
}

// Value returns the parsed path, or the default before parsing.
func (s FileFlag) Value() string {
	return s.get()
}

// IntFlag represents flag with int value.
type IntFlag struct {
	valueFlag[int]
}

// NewIntFlag is a constructor of IntFlag struct.
func NewIntFlag(flagName string, description string, defaultValue int) *IntFlag {
	return define(flagName, func(f *IntFlag) bool { return f.defaultValue == defaultValue }, func() *IntFlag {
		f := &IntFlag{valueFlag[int]{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, strconv.Itoa(defaultValue)),
			defaultValue:  defaultValue,
		}}
		f.value = f.Int()
		return f
	})
}

// Value returns the parsed value, or the default before parsing.
func (i IntFlag) Value() int {
	return i.get()
}

// SliceFlag is a repeatable flag; each occurrence may hold several comma
// separated items.
type SliceFlag struct {
	valueFlag[[]string]
}

// NewSliceFlag is a constructor of SliceFlag struct.
func NewSliceFlag(flagName string, description string, elemsInDefaultSlice ...string) *SliceFlag {
	return define(flagName, func(f *SliceFlag) bool {
		return reflect.DeepEqual(f.defaultValue, elemsInDefaultSlice)
	}, func() *SliceFlag {
		f := &SliceFlag{valueFlag[[]string]{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, strings.Join(elemsInDefaultSlice, stringListDelimiter)),
			defaultValue:  elemsInDefaultSlice,
		}}
		f.value = StringList(f)
		return f
	})
}

// Value returns a copy of the parsed items, or of the default before parsing.
func (s SliceFlag) Value() []string {
	return append([]string{}, s.get()...)
}

// BoolFlag represents flag with bool value.
type BoolFlag struct {
	valueFlag[bool]
}

// NewBoolFlag is a constructor of BoolFlag struct.
func NewBoolFlag(flagName string, description string, defaultValue bool) *BoolFlag {
	return define(flagName, func(f *BoolFlag) bool { return f.defaultValue == defaultValue }, func() *BoolFlag {
		f := &BoolFlag{valueFlag[bool]{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, strconv.FormatBool(defaultValue)),
			defaultValue:  defaultValue,
		}}
		f.value = f.Bool()
		return f
	})
}

// Value returns the parsed value, or the default before parsing.
func (b BoolFlag) Value() bool {
	return b.get()
}

// DurationFlag represents flag with duration value.
type DurationFlag struct {
	valueFlag[time.Duration]
}

// NewDurationFlag is a constructor of DurationFlag struct.
func NewDurationFlag(flagName string, description string, defaultValue time.Duration) *DurationFlag {
	return define(flagName, func(f *DurationFlag) bool { return f.defaultValue == defaultValue }, func() *DurationFlag {
		f := &DurationFlag{valueFlag[time.Duration]{
			cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue.String()),
			defaultValue:  defaultValue,
		}}
		f.value = f.Duration()
		return f
	})
}

// Value returns the parsed value, or the default before parsing.
func (d DurationFlag) Value() time.Duration {
	return d.get()
}
