// Package followup fetches the additional questions shown after a survey
// is submitted.
package followup

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// maxBody caps how much of the response is read.
const maxBody = 1 << 20

// Fetcher returns the follow-up questions for a survey topic.
type Fetcher interface {
	Questions(ctx context.Context, topic string) ([]string, error)
}

// Client calls the questions endpoint: GET <endpoint>?topic=<topic>,
// answered with a JSON array of strings.
type Client struct {
	endpoint   string
	httpClient *http.Client
	policy     *bluemonday.Policy
}

// NewClient builds a client for endpoint. A zero timeout means none.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		policy:     bluemonday.StrictPolicy(),
	}
}

// WithHTTPClient swaps the underlying transport client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Questions performs a single GET. There is no retry: any transport error,
// non-2xx status or undecodable body is returned to the caller.
func (c *Client) Questions(ctx context.Context, topic string) ([]string, error) {
	target, err := c.url(topic)
	if err != nil {
		return nil, fmt.Errorf("followup: build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("followup: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("followup: request questions: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("followup: request questions: status %d", resp.StatusCode)
	}

	var raw []string
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("followup: decode questions: %w", err)
	}

	// Strip markup, then decode entities: views escape on output.
	questions := make([]string, 0, len(raw))
	for _, q := range raw {
		q = strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(q)))
		if q != "" {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (c *Client) url(topic string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("topic", topic)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
