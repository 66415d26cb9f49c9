package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coderzclub/harness/api"
)

// FetchLimits fetches a fresh rate-limit snapshot for the current user and
// problem. Quota counters live entirely on the backend; the snapshot is never
// cached or locally decremented.
func (c *Client) FetchLimits(ctx context.Context, problemId string) (*api.RateLimitState, error) {
	u := c.BaseUrl + "/api/submissions/limits"
	if problemId != "" {
		u += "?problemId=" + url.QueryEscape(problemId)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build limits request: %w", err)
	}
	c.authorize(req)

	res, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submission limits: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("limits endpoint returned status %d", res.StatusCode)
	}

	var state api.RateLimitState
	if err := json.NewDecoder(res.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode limits response: %w", err)
	}
	return &state, nil
}
