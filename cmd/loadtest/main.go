package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/chatrank/internal/loadtest"
)

// Default configuration constants.
const (
	defaultTranscripts = 200
	defaultDuplicates  = 20
	defaultMessages    = 2000
	defaultSenders     = 8
	defaultNoise       = 0.02
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		transcripts = flag.Int("transcripts", defaultTranscripts, "Number of distinct transcripts to upload")
		duplicates  = flag.Int("duplicates", defaultDuplicates, "Extra uploads repeating earlier transcripts")
		messages    = flag.Int("messages", defaultMessages, "Messages per transcript")
		senders     = flag.Int("senders", defaultSenders, "Participants per transcript")
		noise       = flag.Float64("noise", defaultNoise, "Ratio of system notifications per message")
		seed        = flag.Uint64("seed", 1, "Seed of the first transcript")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait        = flag.Duration("wait", loadtest.DefaultWaitTimeout, "Maximum wait for one analysis")
		logFile     = flag.String("log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp(os.Stdout)
		return
	}

	closer, err := loadtest.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &loadtest.Config{
		BaseURL:     *baseURL,
		Transcripts: *transcripts,
		Duplicates:  *duplicates,
		Messages:    *messages,
		Senders:     *senders,
		Noise:       *noise,
		Seed:        *seed,
		Workers:     *workers,
		Timeout:     *timeout,
		WaitTimeout: *wait,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	if _, err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
