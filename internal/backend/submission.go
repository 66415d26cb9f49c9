package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coderzclub/harness/api"
)

// SaveSubmission persists one terminal verdict to the submission-record
// endpoint.
func (c *Client) SaveSubmission(ctx context.Context, rec *api.SubmissionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode submission record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseUrl+"/api/submissions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	res, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		return fmt.Errorf("submission endpoint returned status %d: %s", res.StatusCode, msg)
	}
	return nil
}
