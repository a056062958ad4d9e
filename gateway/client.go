package gateway

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cortexhub/cortex"
)

// Client talks to a Cortex chat producer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ cortex.Gateway = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the producer at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// Streaming responses stay open for the life of the exchange, so
		// the client carries no overall timeout. Cancellation comes from
		// the request context.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Stream opens one streaming exchange. A non-200 response is classified
// into the stream error taxonomy before any frame is read.
func (c *Client) Stream(ctx context.Context, req cortex.Request) (cortex.Stream, error) {
	body, err := encodeRequest(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+streamPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(tenantHeader, req.TenantID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, cortex.ClassifyStatus(resp.StatusCode)
	}
	return newStream(ctx, resp.Body), nil
}
