package rsession

import (
	"strings"
	"time"

	"github.com/jmaanova/jmaanova/pkg/conf"
)

// Config describes how the interpreter is started.
type Config struct {
	Path            string        `help:"Path to the R binary" default:"R"`
	Args            []string      `help:"Arguments passed to the R binary" default:"--vanilla,--slave"`
	Host            string        `help:"Host running R over ssh; empty runs R locally"`
	SSHPort         int           `help:"SSH port of the R host" default:"22"`
	StartupTimeout  time.Duration `help:"Time allowed for R to start and load packages" default:"30s"`
	ShutdownTimeout time.Duration `help:"Time allowed for R to quit before it is killed" default:"5s"`
	Packages        []string      `help:"R packages loaded when the session starts" default:"maanova"`

	flagPrefix string
}

// DefaultConfig returns the configuration from flags and MAANOVA_R_* environment variables.
func DefaultConfig() Config {
	config := Config{flagPrefix: "R_"}
	if err := conf.Process(&config); err != nil {
		// Programmer error: the struct tags above are static.
		panic(err)
	}
	return config
}

func (c Config) command() string {
	path := c.Path
	if path == "" {
		path = "R"
	}
	return strings.TrimSpace(path + " " + strings.Join(c.Args, " "))
}
