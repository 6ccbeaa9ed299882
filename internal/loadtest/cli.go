// Package loadtest drives a running chatrank service end to end: it uploads
// generated transcripts concurrently, waits for the analyses and checks each
// ranking against the tallies the generator recorded.
package loadtest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/chatrank/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "loadtest_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file), "text"); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// ShowHelp prints usage information for the load test tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `chatrank load test
==================

Uploads generated chat exports to a running chatrank service and verifies
every ranking it returns.

Usage:
  go run ./cmd/loadtest [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -transcripts int
        Number of distinct transcripts to upload (default 200)
  -duplicates int
        Extra uploads repeating earlier transcripts (default 20)
  -messages int
        Messages per transcript (default 2000)
  -senders int
        Participants per transcript (default 8)
  -noise float
        Ratio of system notifications per message (default 0.02)
  -seed uint
        Seed of the first transcript (default 1)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        Maximum wait for one analysis (default 2m)
  -log string
        Log file for test output (default: loadtest_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/loadtest -transcripts 1000 -workers 16 -url http://localhost:8080
  go run ./cmd/loadtest -verbose -messages 20000
`)
}
