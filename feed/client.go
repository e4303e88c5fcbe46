// Package feed fetches JSON documents from external alert feeds.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ariebrainware/alert-board/observability"
	"github.com/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept on the error.
const maxErrorBody = 512

// ErrDecode marks a response that arrived but was not valid JSON.
var ErrDecode = errors.New("feed body is not valid JSON")

// TransportError reports a request that failed on the network or came back
// with a 4xx or 5xx status. StatusCode is zero for network failures.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client performs feed requests.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewClient creates a feed client. A zero timeout leaves requests bounded
// only by the caller's context. metrics may be nil.
func NewClient(timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

var defaultClient = NewClient(0, nil)

// FetchExternal issues one GET against url with the default client.
func FetchExternal(ctx context.Context, url string) (any, error) {
	return defaultClient.Fetch(ctx, url)
}

// Fetch issues one GET against url and returns the decoded JSON body
// ([]any, map[string]any, string, float64, bool or nil). It never retries.
func (c *Client) Fetch(ctx context.Context, url string) (any, error) {
	start := time.Now()
	data, outcome, err := c.fetch(ctx, url)
	if c.metrics != nil {
		c.metrics.FeedRequests.WithLabelValues(outcome).Inc()
		c.metrics.FeedDuration.Observe(time.Since(start).Seconds())
	}
	return data, err
}

func (c *Client) fetch(ctx context.Context, url string) (any, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "network_error", &TransportError{URL: url, Err: errors.Wrap(err, "create request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "network_error", &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, "http_error", &TransportError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "network_error", &TransportError{URL: url, Err: errors.Wrap(err, "read body")}
	}
	// the whole body must be one JSON document
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, "decode_error", errors.Wrapf(ErrDecode, "fetch %s: %v", url, err)
	}
	return data, "success", nil
}
