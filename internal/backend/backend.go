// Package backend is the client for the CoderzClub backend: the rate-limit
// query endpoint consulted before submit-mode runs and the submission-record
// endpoint verdicts are persisted to.
package backend

import (
	"net/http"
	"time"
)

type Client struct {
	BaseUrl string
	Token   string

	HttpClient *http.Client
}

// NewClient creates a backend client bound to one user session's bearer
// token.
func NewClient(baseUrl, token string) *Client {
	return &Client{
		BaseUrl:    baseUrl,
		Token:      token,
		HttpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
}
