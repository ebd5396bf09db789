package fastget

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/oalfonso-o/FastGET/internal/requester"
)

// Default sizing, matching the reference configuration. These are
// configuration, not semantics: any positive values are valid as long as
// the pool size and the queue ceiling are at least one single submission.
const (
	// DefaultSingleSubmitSize is the default number of requests handed to
	// one worker run.
	DefaultSingleSubmitSize = 5_000

	// DefaultPoolSubmitSize is the default number of requests pulled from
	// the source and considered for submission at once.
	DefaultPoolSubmitSize = 50_000

	// DefaultQueueMaxSize is the default backpressure ceiling on requests
	// submitted but not yet yielded.
	DefaultQueueMaxSize = 100_000
)

// ErrClientInUse is returned by [Client.Stream] when a stream is started on
// a Client that has not finished draining a previous one. A single Client
// must not run two overlapping streams; correlating interleaved results
// across concurrent callers has no sensible semantics.
var ErrClientInUse = errors.New("fastget: client is in use: a single Client cannot run two streams concurrently")

// streamState tracks the lifecycle of the one stream a Client may run at a
// time: Idle -> Streaming -> Draining -> Idle.
type streamState int

const (
	stateIdle streamState = iota
	stateStreaming
	stateDraining
)

// Client issues large numbers of independent HTTP GET requests concurrently
// and returns their outcomes as a lazily-produced stream.
//
// A Client partitions the request source into bounded chunks, spreads the
// chunks across a fixed-width pool of workers (each of which runs all of
// its chunk's requests concurrently), enforces a ceiling on outstanding
// work, and re-assembles per-request outcomes into one [Response] stream in
// completion order.
//
// The typical lifecycle is:
//
//	client, err := fastget.New()
//	if err != nil {
//	    slog.Error("failed to create client", "error", err)
//	    os.Exit(1)
//	}
//	defer client.Close()
//
//	responses, err := client.Stream(ctx, requests,
//	    fastget.WithRequestTimeout(5*time.Second))
//	if err != nil {
//	    // usage or option error; per-request failures never surface here
//	}
//	for resp := range responses {
//	    // completion order, one Response per Request
//	}
//
// A Client is single-use per stream: starting a second stream before the
// first has fully drained fails with [ErrClientInUse]. Once drained, the
// same Client can stream again and its HTTP connection pool is reused.
type Client struct {
	numWorkers       int
	singleSubmitSize int
	poolSubmitSize   int
	queueMaxSize     int
	logger           *slog.Logger
	httpClient       *requester.Client

	mu    sync.Mutex
	state streamState
}

// New creates a [Client] with the given options.
//
// Defaults: workers = number of CPUs, single submit size = 5000, pool
// submit size = 50000, queue ceiling = 100000. All sizes must be positive,
// the pool size must be at least the single size, and the queue ceiling
// must be at least the single size (a stricter ceiling could never admit a
// single submission). Violations fail here, before any request is issued.
func New(opts ...Option) (*Client, error) {
	cfg := &fgConfig{
		numWorkers:       runtime.GOMAXPROCS(0),
		singleSubmitSize: DefaultSingleSubmitSize,
		poolSubmitSize:   DefaultPoolSubmitSize,
		queueMaxSize:     DefaultQueueMaxSize,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.poolSubmitSize < cfg.singleSubmitSize {
		return nil, errors.New("pool submit size must be at least the single submit size")
	}
	if cfg.queueMaxSize < cfg.singleSubmitSize {
		return nil, errors.New("queue max size must be at least the single submit size")
	}

	logger := cfg.logger
	if logger == nil {
		if cfg.debug {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
		} else {
			logger = slog.Default()
		}
	}

	return &Client{
		numWorkers:       cfg.numWorkers,
		singleSubmitSize: cfg.singleSubmitSize,
		poolSubmitSize:   cfg.poolSubmitSize,
		queueMaxSize:     cfg.queueMaxSize,
		logger:           logger,
		httpClient:       requester.NewClient(cfg.httpClient),
	}, nil
}

// Stream issues one GET per Request received from requests and returns a
// channel emitting one [Response] per Request, in completion order.
//
// The requests channel is the lazy source: it may carry any number of
// requests and is consumed incrementally, so the full input is never
// materialized. It must be fed from a goroutine other than the one
// consuming the returned channel (or be pre-loaded, see [FromSlice]),
// and must be closed to mark exhaustion.
//
// The returned channel is unbuffered beyond the configured queue ceiling:
// the caller's consumption paces further submission. It is closed after
// every submitted request has resolved and been yielded. Per-request
// failures never surface as errors; they arrive as 500 diagnostic
// Responses (see [Diagnostic]).
//
// Cancelling ctx stops the stream early: submission halts, requests
// already in flight are waited out and discarded, and the channel closes.
// Only a cancelled context releases a stream whose consumer has walked
// away; otherwise the caller must drain the channel.
//
// Stream returns an error only for invalid options, a nil source, or a
// Client still busy with a previous stream ([ErrClientInUse]).
func (c *Client) Stream(ctx context.Context, requests <-chan Request, opts ...StreamOption) (<-chan Response, error) {
	if requests == nil {
		return nil, errors.New("requests channel cannot be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sc := &streamConfig{}
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	if c.state != stateIdle {
		c.mu.Unlock()
		return nil, ErrClientInUse
	}
	c.state = stateStreaming
	c.mu.Unlock()

	c.logger.Info("stream starting",
		"num_workers", c.numWorkers,
		"single_submit_size", c.singleSubmitSize,
		"pool_submit_size", c.poolSubmitSize,
		"queue_max_size", c.queueMaxSize,
		"request_timeout", sc.timeout.String(),
	)

	out := make(chan Response)
	go c.newDispatcher(out, sc.timeout).run(ctx, requests)
	return out, nil
}

// Close releases the pooled HTTP resources owned by the Client.
//
// Safe to call multiple times. Close only drops idle connections, so it
// should be called after outstanding streams have drained; the Client
// remains usable and new connections are established as needed.
func (c *Client) Close() {
	c.httpClient.Close()
}

// setState records a lifecycle transition.
func (c *Client) setState(s streamState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
