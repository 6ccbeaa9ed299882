package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/chatrank/pkg/logger"
)

// retrieveResults waits for every accepted upload to finish and reads back
// its summary and full ranking.
func retrieveResults(ctx context.Context, config *Config, uploads []*Upload, stats *Stats) ([]Outcome, error) {
	logger.Get().Info(ctx, "retrieving results", logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	pending := make([]*Upload, 0, len(uploads))
	for _, up := range uploads {
		if up.Err == nil && up.ID != "" {
			pending = append(pending, up)
		}
	}

	outcomes := make([]Outcome, len(pending))
	var (
		retrieved int64
		failed    int64
	)

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				out := retrieveSingleResult(ctx, client, config, pending[index])
				outcomes[index] = out
				if out.Err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "failed to read result",
							logger.String("id", pending[index].ID), logger.Error(out.Err))
					}
					continue
				}
				atomic.AddInt64(&retrieved, 1)
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range pending {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.ResultsRetrieved = int(atomic.LoadInt64(&retrieved))
	logger.Get().Info(ctx, "result retrieval completed",
		logger.Int("retrieved", stats.ResultsRetrieved),
		logger.Int("failed", int(atomic.LoadInt64(&failed))))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// retrieveSingleResult polls GET /chats/{id} until the analysis leaves the
// pending state, then fetches the ranking.
func retrieveSingleResult(ctx context.Context, client *HTTPClient, config *Config, up *Upload) Outcome {
	out := Outcome{Upload: up}
	base := fmt.Sprintf("%s/chats/%s", config.BaseURL, up.ID)

	deadline := time.Now().Add(config.WaitTimeout)
	for {
		if _, err := client.getJSON(ctx, base, &out.Summary); err != nil {
			out.Err = err
			return out
		}
		if out.Summary.Status != statusPending {
			break
		}
		if time.Now().After(deadline) {
			out.Err = fmt.Errorf("analysis %s still pending after %s", up.ID, config.WaitTimeout)
			return out
		}
		select {
		case <-ctx.Done():
			out.Err = ctx.Err()
			return out
		case <-time.After(config.PollInterval):
		}
	}

	if out.Summary.Status != statusDone {
		out.Err = fmt.Errorf("analysis %s ended %s: %s", up.ID, out.Summary.Status, out.Summary.Reason)
		return out
	}

	code, err := client.getJSON(ctx, base+"/senders", &out.Senders)
	if err != nil {
		out.Err = err
		return out
	}
	if code != http.StatusOK {
		out.Err = fmt.Errorf("senders: HTTP %d", code)
	}
	return out
}
