package app

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/docsite/pkg/logging"
)

var validLevels = []string{"trace", "debug", "info", "warn", "error"}

// NewLogger creates a configured logger based on the application configuration.
// Log level precedence (highest to lowest):
//  1. --log-level flag
//  2. -v/--verbose flag (debug)
//  3. -q/--quiet flag (warn)
//  4. LOG_LEVEL environment variable
//  5. Default (info)
func NewLogger(config *Config) zerolog.Logger {
	return newLogger(config, os.Stderr)
}

func newLogger(config *Config, warnings io.Writer) zerolog.Logger {
	return logging.NewLoggerFromConfig(loggingConfig(config, warnings))
}

// loggingConfig translates the application settings into logger settings.
func loggingConfig(config *Config, warnings io.Writer) *logging.Config {
	level := determineLogLevel(config, warnings)

	return &logging.Config{
		Level:      level,
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor,
		AddCaller:  level == "debug" || level == "trace",
	}
}

// determineLogLevel applies the precedence rules. Problems are reported on
// warnings because the logger does not exist yet.
func determineLogLevel(config *Config, warnings io.Writer) string {
	if config.LogLevel != "" {
		return validateLogLevel(config.LogLevel, warnings)
	}

	if config.Verbose && config.Quiet {
		fmt.Fprintln(warnings, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}

	if config.EnvLogLevel != "" {
		return validateLogLevel(config.EnvLogLevel, warnings)
	}
	return "info"
}

// validateLogLevel returns level when it is known and info otherwise.
func validateLogLevel(level string, warnings io.Writer) string {
	if slices.Contains(validLevels, level) {
		return level
	}
	fmt.Fprintf(warnings, "Warning: invalid log level %q, using %q\n", level, "info")
	return "info"
}
