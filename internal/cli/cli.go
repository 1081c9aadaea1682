// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/vk/topogrid/inception"
	"github.com/vk/topogrid/internal/app"
)

// EnvPrefix prefixes every environment variable read by Parse.
const EnvPrefix = "TOPOGRID"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// environment holds the defaults that may come from the process environment
// or a .env file. Flags override them.
type environment struct {
	Table     string `envconfig:"TABLE"`
	Output    string `envconfig:"OUTPUT" default:"text"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

// loadEnvironment reads the optional .env file and then the TOPOGRID_*
// variables. Variables already set in the process win over the file.
func loadEnvironment() (environment, error) {
	var env environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return env, fmt.Errorf("failed to read .env file: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return env, err
	}
	return env, nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	env, err := loadEnvironment()
	if err != nil {
		return nil, false, usageError("invalid environment: %v", err)
	}

	flagSet := flag.NewFlagSet("topogrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
topogrid - A declarative network topology compiler.

Usage:
  topogrid [options] [TABLE_PATH]

Arguments:
  TABLE_PATH
    Path to a table file (.hcl, .yaml, .yml, .json) or a directory of them.
    Without one the built-in Inception v3 table is used.

Environment:
  TOPOGRID_TABLE, TOPOGRID_OUTPUT, TOPOGRID_LOG_FORMAT, TOPOGRID_LOG_LEVEL
    Defaults for the matching options, also read from a .env file.

Options:
`)
		flagSet.PrintDefaults()
	}

	tableFlag := flagSet.String("table", env.Table, "Path to the table file or directory.")
	tFlag := flagSet.String("t", "", "Path to the table file or directory (shorthand).")
	inputFlag := flagSet.String("input", "299,299,1", "Input shape as height,width,channels.")
	nameFlag := flagSet.String("name", inception.DefaultName, "Model name, also the prefix of every layer name.")
	denseEndFlag := flagSet.Bool("dense-end", false, "Append the classification head (built-in table only).")
	outputFlag := flagSet.String("output", env.Output, "Summary format. Options: 'text', 'json' or 'yaml'.")
	exportFlag := flagSet.String("export", "", "Print the resolved table in this format instead of building. Options: 'hcl' or 'yaml'.")
	checkFlag := flagSet.Bool("check", false, "Validate the table and exit.")
	metricsFileFlag := flagSet.String("metrics-file", "", "Write build metrics in the Prometheus text format to this file.")
	logFormatFlag := flagSet.String("log-format", env.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", env.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *tableFlag
	if *tFlag != "" {
		path = *tFlag
	}
	if flagSet.NArg() > 1 {
		return nil, false, usageError("expected at most one table path, got %d", flagSet.NArg())
	}
	if flagSet.NArg() == 1 {
		if path != "" && path != env.Table {
			return nil, false, usageError("table path given both as a flag and as an argument")
		}
		path = flagSet.Arg(0)
	}
	slog.Debug("Table path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	exportFormat := strings.ToLower(*exportFlag)
	switch exportFormat {
	case "", "hcl", "yaml":
	default:
		return nil, false, usageError("invalid export: must be 'hcl' or 'yaml'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		TablePath:   path,
		InputShape:  *inputFlag,
		Name:        *nameFlag,
		DenseEnd:    *denseEndFlag,
		Output:      *outputFlag,
		Export:      exportFormat,
		Check:       *checkFlag,
		MetricsFile: *metricsFileFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "table", config.TablePath)
	return config, false, nil
}
