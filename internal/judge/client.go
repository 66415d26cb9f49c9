package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ExecutionError is an unrecoverable judge failure: transport problems, or a
// non-retryable (or retries-exhausted) HTTP status. It aborts the whole run
// and is never attributed to a single test case.
type ExecutionError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ExecutionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("judge request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("judge request failed: %s", e.Message)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// Client is a thin wrapper around the remote execution API. It keeps no state
// between calls; the orchestrator issues calls strictly one at a time.
type Client struct {
	BaseUrl string
	ApiKey  string
	ApiHost string

	HttpClient *http.Client
	Retry      RetryPolicy

	// Sleep is the backoff wait, injectable for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a judge client with the default retry policy.
func NewClient(baseUrl, apiKey, apiHost string) *Client {
	return &Client{
		BaseUrl:    baseUrl,
		ApiKey:     apiKey,
		ApiHost:    apiHost,
		HttpClient: &http.Client{Timeout: 60 * time.Second},
		Retry:      DefaultRetryPolicy(),
		Sleep:      sleepCtx,
	}
}

// Execute sends one execution request and suspends until a normalized result
// or an unrecoverable error. HTTP 429 and 503 are retried per the client's
// retry policy; everything else propagates immediately.
func (c *Client) Execute(ctx context.Context, req ExecutionRequest) (*ExecutionResult, error) {
	for attempt := 0; ; attempt++ {
		res, retryable, err := c.post(ctx, req)
		if err == nil {
			return res, nil
		}
		if !retryable || attempt+1 >= c.Retry.MaxAttempts {
			return nil, err
		}

		delay := c.Retry.Delay(attempt)
		slog.Warn("judge overloaded, backing off",
			"attempt", attempt+1, "delay", delay)
		if serr := c.Sleep(ctx, delay); serr != nil {
			return nil, &ExecutionError{Message: "backoff interrupted", Err: serr}
		}
	}
}

func (c *Client) post(ctx context.Context, req ExecutionRequest) (*ExecutionResult, bool, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, false, &ExecutionError{Message: "failed to encode request", Err: err}
	}

	url := c.BaseUrl + "/submissions?base64_encoded=false&wait=true"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, &ExecutionError{Message: "failed to build request", Err: err}
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", c.ApiKey)
	httpReq.Header.Set("X-RapidAPI-Host", c.ApiHost)

	httpRes, err := c.HttpClient.Do(httpReq)
	if err != nil {
		return nil, false, &ExecutionError{Message: "judge unreachable", Err: err}
	}
	defer httpRes.Body.Close()

	if retryableStatuses.Contains(httpRes.StatusCode) {
		io.Copy(io.Discard, httpRes.Body)
		return nil, true, &ExecutionError{
			StatusCode: httpRes.StatusCode,
			Message:    "judge overloaded",
		}
	}
	if httpRes.StatusCode != http.StatusOK && httpRes.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(httpRes.Body, 4096))
		return nil, false, &ExecutionError{
			StatusCode: httpRes.StatusCode,
			Message:    string(msg),
		}
	}

	var wire wireResult
	if err := json.NewDecoder(httpRes.Body).Decode(&wire); err != nil {
		return nil, false, &ExecutionError{Message: "failed to decode judge response", Err: err}
	}
	return wire.normalize(), false, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
