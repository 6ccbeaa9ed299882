package loadtest

import (
	"context"
	"fmt"

	"github.com/okian/chatrank/internal/transcriptgen"
	"github.com/okian/chatrank/pkg/logger"
)

// generateUploads builds the distinct transcripts concurrently, then appends
// the duplicate uploads that repeat them round-robin.
func generateUploads(ctx context.Context, config *Config, stats *Stats) ([]*Upload, error) {
	logger.Get().Info(ctx, "generating transcripts",
		logger.Int("transcripts", config.Transcripts),
		logger.Int("messagesEach", config.Messages))

	if config.Transcripts < 1 {
		return nil, fmt.Errorf("at least one transcript is required")
	}

	transcripts := make([]transcriptgen.Transcript, config.Transcripts)

	type genResult struct {
		index int
		err   error
	}
	resultChan := make(chan genResult, config.Transcripts)

	workerCount := max(1, min(config.Workers, config.Transcripts))
	perWorker := config.Transcripts / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * perWorker
		end := start + perWorker
		if worker == workerCount-1 {
			end = config.Transcripts // Last worker gets remaining transcripts
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- genResult{index: i, err: ctx.Err()}
					return
				default:
					transcripts[i] = generateSingleTranscript(config, i)
					resultChan <- genResult{index: i}
				}
			}
		}(start, end)
	}

	for i := 0; i < config.Transcripts; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate transcript %d: %w", result.index, result.err)
			}
		}
	}

	uploads := make([]*Upload, 0, config.Transcripts+config.Duplicates)
	for i, tr := range transcripts {
		uploads = append(uploads, &Upload{Index: i, Transcript: tr})
	}
	for d := 0; d < config.Duplicates; d++ {
		src := d % config.Transcripts
		uploads = append(uploads, &Upload{Index: len(uploads), Transcript: transcripts[src]})
	}

	stats.TranscriptsGenerated = len(transcripts)
	logger.Get().Info(ctx, "generated transcripts", logger.Int("uploads", len(uploads)))
	return uploads, nil
}

// generateSingleTranscript derives a distinct transcript from the base seed.
func generateSingleTranscript(config *Config, index int) transcriptgen.Transcript {
	return transcriptgen.New(
		transcriptgen.WithMessages(config.Messages),
		transcriptgen.WithSenders(config.Senders),
		transcriptgen.WithNoise(config.Noise),
		transcriptgen.WithSeed(config.Seed+uint64(index)),
	).Build()
}
