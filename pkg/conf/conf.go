package conf

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// envPrefix is prepended to upper cased flag names to get environment variable names.
const envPrefix = "MAANOVA"

var (
	app = kingpin.New("jmaanova", "Microarray analysis of variance through an R interpreter.")

	logLevelFlag = NewStringFlag(
		"log",
		"Log level: debug, info, warn, error, fatal, panic",
		"error",
	)
	isEnvParsed = false
)

// SetHelpPath sets the help message for the CLI from the contents of a file.
func SetHelpPath(readmePath string) {
	readmeData, err := ioutil.ReadFile(readmePath)
	if err != nil {
		panic(errors.Wrapf(err, "reading %s failed", readmePath))
	}
	app.Help = string(readmeData)
}

// SetHelp sets the help message for the CLI.
func SetHelp(help string) {
	app.Help = help
}

// SetAppName sets application name for CLI output.
func SetAppName(name string) {
	app.Name = name
}

// AppName returns the application name.
func AppName() string {
	return app.Name
}

// LogLevel returns the configured log level. An unparsable value falls back
// to the default level.
func LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(logLevelFlag.Value())
	if err == nil {
		return level
	}

	level, err = logrus.ParseLevel(logLevelFlag.defaultValue)
	if err == nil {
		return level
	}

	// Programmer error.
	panic(errors.Wrap(err, "parsing log level failed"))
}

// ParseFlags parses the command line of the process and the environment.
func ParseFlags() error {
	return parse(os.Args[1:])
}

// ParseArgs parses the given arguments and the environment.
func ParseArgs(args []string) error {
	return parse(args)
}

// ParseEnv parses only the environment.
func ParseEnv() error {
	return parse([]string{})
}

func parse(args []string) error {
	if _, err := app.Parse(args); err != nil {
		return errors.Wrap(err, "could not parse configuration")
	}
	isEnvParsed = true
	return nil
}

type flagDefinition struct {
	Name, Value, Default, Help string
}

// getFlagsDefinition returns current value, default and description of every
// registered flag, sorted by name.
func getFlagsDefinition() []flagDefinition {
	var flags []flagDefinition
	for _, flag := range app.Model().Flags {
		// Skip kingpin builtins which have no environment form.
		if flag.Name == "help" || strings.Contains(flag.Name, "-") {
			continue
		}

		value := flag.Value.String()
		if list, ok := flag.Value.(*StringListVar); ok {
			value = strings.Join(*list, stringListDelimiter)
		}

		flags = append(flags, flagDefinition{
			Name:    flag.Name,
			Help:    flag.Help,
			Default: strings.Join(flag.Default, stringListDelimiter),
			Value:   value,
		})
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
	return flags
}

// DumpConfig dumps the environment form of the configuration with current values.
func DumpConfig() string {
	return DumpConfigMap(nil)
}

// DumpConfigMap dumps the environment form of the configuration with current
// values overridden by flagMap. The result can be sourced by bash.
func DumpConfigMap(flagMap map[string]string) string {
	buffer := &bytes.Buffer{}

	buffer.WriteString("# Export all values.\n")
	buffer.WriteString("set -o allexport\n")

	for _, fd := range getFlagsDefinition() {
		fmt.Fprintf(buffer, "\n# %s\n", fd.Help)
		if fd.Default != "" {
			fmt.Fprintf(buffer, "# Default: %s\n", fd.Default)
		}

		value := fd.Value
		if mapValue, ok := flagMap[fd.Name]; ok {
			value = mapValue
		}

		fmt.Fprintf(buffer, "%s_%s=%v\n", envPrefix, strings.ToUpper(fd.Name), value)
	}

	buffer.WriteString("set +o allexport\n")
	return buffer.String()
}

// GetFlags returns flags as map with current values.
func GetFlags() map[string]string {
	flagsMap := map[string]string{}
	for _, flag := range getFlagsDefinition() {
		flagsMap[flag.Name] = flag.Value
	}
	return flagsMap
}
