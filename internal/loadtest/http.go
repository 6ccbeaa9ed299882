package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/chatrank/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// PostText performs a POST request with a plain text body
func (c *HTTPClient) PostText(ctx context.Context, url, body string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v any) (int, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitUploads posts transcripts concurrently using a worker pool
func submitUploads(ctx context.Context, config *Config, uploads []*Upload, stats *Stats) error {
	logger.Get().Info(ctx, "submitting transcripts",
		logger.Int("uploads", len(uploads)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/chats"

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	uploadChan := make(chan *Upload, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for up := range uploadChan {
				submitSingleUpload(ctx, client, url, up)

				atomic.AddInt64(&submitted, 1)
				switch {
				case up.Err != nil:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "upload failed", logger.Int("index", up.Index), logger.Error(up.Err))
					}
				case up.Duplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&accepted, 1)
				}
			}
		}()
	}

	go func() {
		defer close(uploadChan)
		for _, up := range uploads {
			select {
			case <-ctx.Done():
				return
			case uploadChan <- up:
			}
		}
	}()

	wg.Wait()

	stats.UploadsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.UploadsAccepted = int(atomic.LoadInt64(&accepted))
	stats.UploadsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.UploadsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "submission completed",
		logger.Int("accepted", stats.UploadsAccepted),
		logger.Int("duplicate", stats.UploadsDuplicate),
		logger.Int("failed", stats.UploadsFailed))

	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// submitSingleUpload posts one transcript and records the answer on up.
func submitSingleUpload(ctx context.Context, client *HTTPClient, url string, up *Upload) {
	resp, err := client.PostText(ctx, url, up.Transcript.Text)
	if err != nil {
		up.Err = err
		return
	}
	body, err := readResponseBody(resp)
	if err != nil {
		up.Err = err
		return
	}

	switch resp.StatusCode {
	case http.StatusAccepted, http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err != nil {
			up.Err = fmt.Errorf("failed to parse ack: %w", err)
			return
		}
		up.ID = ack.ID
		up.Duplicate = ack.Duplicate
	default:
		up.Err = fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
