// Package conf holds the jmaanova configuration which can be given both on
// the command line and through environment variables.
//
// Every flag registered here is bound to a kingpin flag and to the
// environment variable MAANOVA_<FLAG_NAME>. The only flag registered by default is
//
//	--log / MAANOVA_LOG  log level: debug, info, warn, error, fatal, panic (default: error)
//
// Flag values are defaults until ParseEnv or ParseFlags runs. ParseEnv may be
// called repeatedly; ParseFlags also reads the process arguments and prints
// help when asked, so it belongs in main after all flags are registered.
package conf
