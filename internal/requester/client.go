package requester

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 8 << 20 // 8MB

// connection pooling limits to prevent resource exhaustion when issuing
// very large numbers of requests against a small set of hosts
const (
	defaultMaxIdleConns        = 512
	defaultMaxIdleConnsPerHost = 64
	defaultIdleConnTimeout     = 60 * time.Second
)

// FetchResult is the raw termination of one HTTP GET, before outcome
// mapping: either a status code with the full body, or an error.
type FetchResult struct {
	// StatusCode is the HTTP status code. Zero if the request failed
	// before a response was received.
	StatusCode int

	// Body is the full response body, limited to 8MB.
	Body []byte

	// Err is any transport, timeout, or read error. nil means a
	// well-formed response was received (its status may still be 4xx/5xx).
	Err error
}

// Client is an HTTP client wrapper optimized for issuing many GET requests
// concurrently against a shared connection pool.
//
// Client uses per-request timeouts via context rather than a global timeout,
// so the same pooled transport serves streams with different timeout
// configurations. Response bodies are limited to 8MB.
type Client struct {
	httpClient *http.Client
	owned      bool
}

// NewClient creates a new [Client].
//
// If httpClient is nil, a client with tuned connection pooling is built:
// keep-alives enabled, generous idle pools (bulk GET streams hammer a small
// number of hosts), and no global timeout. A caller-supplied client is used
// as-is, allowing custom transports, TLS configuration, or proxies.
func NewClient(httpClient *http.Client) *Client {
	if httpClient != nil {
		return &Client{httpClient: httpClient}
	}
	return &Client{
		httpClient: &http.Client{
			// no default timeout - timeouts are per-request via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		owned: true,
	}
}

// Fetch issues one GET and returns its raw termination as a [FetchResult].
//
// A timeout of zero means no per-request deadline beyond ctx itself.
// Fetch never returns an error separately; failures are captured in the
// Err field so that outcome mapping sees every termination uniformly.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) FetchResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FetchResult{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// read body with size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return FetchResult{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("read response body: %w", err),
		}
	}

	return FetchResult{StatusCode: resp.StatusCode, Body: body}
}

// Close closes all idle connections in the client's connection pool.
//
// Only transports owned by the Client (built by [NewClient] from nil) are
// touched; caller-supplied clients are left alone. Safe to call multiple
// times; after Close the client remains usable and new connections are
// established as needed.
func (c *Client) Close() {
	if c == nil || !c.owned {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}
