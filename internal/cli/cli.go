package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vk/akamai2azion/internal/app"
)

// Environment variables that provide flag defaults.
const (
	EnvLogLevel    = "AKAMAI2AZION_LOG_LEVEL"
	EnvLogFormat   = "AKAMAI2AZION_LOG_FORMAT"
	EnvEnvironment = "AKAMAI2AZION_ENVIRONMENT"
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

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("akamai2azion", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
akamai2azion - Converts Akamai property configuration into Azion resources.

Usage:
  akamai2azion [options] [INPUT]

Arguments:
  INPUT
    A Terraform .tf file, a directory of .tf files, a JSON/YAML document,
    or "-" to read a JSON/YAML document from standard input.

Options:
`)
		flagSet.PrintDefaults()
		fmt.Fprintf(output, `
Environment:
  %s, %s, %s
    Defaults for -log-level, -log-format and -environment.
`, EnvLogLevel, EnvLogFormat, EnvEnvironment)
	}

	inputFlag := flagSet.String("input", "", "Path to the Akamai configuration.")
	iFlag := flagSet.String("i", "", "Path to the Akamai configuration (shorthand).")
	outputFlag := flagSet.String("output", "", "Write the result to this file instead of standard output.")
	oFlag := flagSet.String("o", "", "Write the result to this file (shorthand).")
	formatFlag := flagSet.String("format", "json", "Output format. Options: 'json' or 'hcl'.")
	envFlag := flagSet.String("environment", envOr(EnvEnvironment, ""), "Target environment. Names are suffixed outside production.")
	functionMapFlag := flagSet.String("function-map", "", "JSON/YAML file mapping EdgeWorker ids to Azion edge functions.")
	logFormatFlag := flagSet.String("log-format", envOr(EnvLogFormat, "text"), "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envOr(EnvLogLevel, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := firstNonEmpty(*inputFlag, *iFlag)
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %v", flagSet.Args()[1:])}
	}
	slog.Debug("Input path determined.", "path", path)

	if path == "" {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		InputPath:       path,
		OutputPath:      firstNonEmpty(*outputFlag, *oFlag),
		Format:          strings.ToLower(*formatFlag),
		Environment:     strings.TrimSpace(*envFlag),
		FunctionMapPath: *functionMapFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
