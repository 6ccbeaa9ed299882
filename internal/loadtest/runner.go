package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/chatrank/pkg/logger"
)

// Run executes the complete load test.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{
		StartTime: time.Now(),
	}
	applyDefaults(config)

	logger.Get().Info(ctx, "starting chatrank load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("transcripts", config.Transcripts),
		logger.Int("duplicates", config.Duplicates),
		logger.Int("messages", config.Messages),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate transcripts
	uploads, err := generateUploads(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("transcript generation failed: %w", err)
	}

	// Step 3: Submit transcripts concurrently
	if err := submitUploads(ctx, config, uploads, stats); err != nil {
		return stats, fmt.Errorf("transcript submission failed: %w", err)
	}

	// Step 4: Wait for the analyses and read them back
	outcomes, err := retrieveResults(ctx, config, uploads, stats)
	if err != nil {
		return stats, fmt.Errorf("result retrieval failed: %w", err)
	}

	// Step 5: Verify results
	verifyErr := verifyResults(ctx, config, uploads, outcomes, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if verifyErr != nil {
		return stats, fmt.Errorf("result verification failed: %w", verifyErr)
	}
	logger.Get().Info(ctx, "test completed successfully")
	return stats, nil
}

func applyDefaults(config *Config) {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultPollInterval
	}
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = DefaultWaitTimeout
	}
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	// The service answers with its Prometheus exposition
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats logs the final test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, uploadsPerSecond float64

	if stats.UploadsSubmitted > 0 {
		ok := stats.UploadsAccepted + stats.UploadsDuplicate
		successRate = float64(ok) / float64(stats.UploadsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		uploadsPerSecond = float64(stats.UploadsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("transcriptsGenerated", stats.TranscriptsGenerated),
		logger.Int("uploadsSubmitted", stats.UploadsSubmitted),
		logger.Int("uploadsAccepted", stats.UploadsAccepted),
		logger.Int("uploadsDuplicate", stats.UploadsDuplicate),
		logger.Int("uploadsFailed", stats.UploadsFailed),
		logger.Int("resultsRetrieved", stats.ResultsRetrieved),
		logger.Int("resultsVerified", stats.ResultsVerified),
		logger.Int("resultsMismatched", stats.ResultsMismatched),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("uploadsPerSecond", uploadsPerSecond))
}
