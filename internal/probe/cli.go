package probe

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/devscore/pkg/logger"
)

// File permission constants.
const (
	filePermission = 0600
)

// SetupLogging initializes the global logger. When logFile is set, output
// goes to both stdout and that file.
func SetupLogging(logFile, format string, verbose bool) error {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}
	if err := logger.Init(logger.WithFormat(format), logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`devscore probe
==============

Sends randomized daily score and rating update requests to a running
devscore server and checks every answer against a local model built from
the server's GET /calibration.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -daily int
        Number of daily score requests (default 5000)
  -tasks int
        Number of rating update requests (default 2000)
  -team int
        Largest generated team (default 5)
  -unknown float
        Share of requests with an unrecognized tier (default 0.05)
  -seed uint
        Generator seed; 0 uses the clock
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write generated cases and expectations to this JSON file
  -log string
        Also write log output to this file
  -log-format string
        text or json (default "text")
  -verbose
        Log progress and every mismatch
  -help
        Show this help message

Exit status is non-zero when any response disagrees with the local model.
`)
}
