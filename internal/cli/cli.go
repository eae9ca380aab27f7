// Package cli parses command-line arguments into an app configuration.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/stepflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns the raw configuration,
// a boolean indicating the program should exit cleanly (help/usage), or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("stepflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
stepflow - a dependency-aware UI test plan runner.

Usage:
  stepflow [options] [PLAN_PATH]

Arguments:
  PLAN_PATH
    Path to a single .hcl plan file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", "", "Path to the plan file or directory.")
	pFlag := flagSet.String("p", "", "Path to the plan file or directory (shorthand).")
	memoryFlag := flagSet.String("memory", "", "Path to the selector memory database. Default: selector_memory.db")
	configFlag := flagSet.String("config", "", "Optional YAML settings file.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent workers for the executor. Default: 4")
	attemptsFlag := flagSet.Int("max-attempts", 0, "Maximum attempts per step. Default: 3")
	logFormatFlag := flagSet.String("log-format", "", "Log output format. Options: 'text' or 'json'. Default: text")
	logLevelFlag := flagSet.String("log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. Default: info")
	headlessFlag := flagSet.Bool("headless", true, "Run the browser headless.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Rehearse the plan without driving a browser.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	// A settings file may only fill values the user did not set on the
	// command line. String and int flags default to their zero value, so
	// "unset" is visible from the Config alone; the headless bool defaults
	// to true and needs explicit tracking.
	headlessSet := false
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			headlessSet = true
		}
	})

	path := ""
	if *planFlag != "" {
		path = *planFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "" && logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "", "debug", "info", "warn", "error":
		// valid; empty means "use the settings file or the default"
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	return &app.Config{
		PlanPath:        path,
		MemoryPath:      *memoryFlag,
		ConfigFile:      *configFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Workers:         *workersFlag,
		MaxAttempts:     *attemptsFlag,
		Headless:        *headlessFlag,
		HeadlessSet:     headlessSet,
		DryRun:          *dryRunFlag,
		HealthcheckPort: *healthPortFlag,
	}, false, nil
}
