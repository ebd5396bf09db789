package fastget

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// fgConfig holds mutable state during Client construction.
type fgConfig struct {
	numWorkers       int
	singleSubmitSize int
	poolSubmitSize   int
	queueMaxSize     int
	httpClient       *http.Client
	logger           *slog.Logger
	debug            bool
}

// Option is a function that configures a [Client] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithNumWorkers], [WithSingleSubmitSize],
// [WithPoolSubmitSize], [WithQueueMaxSize], [WithHTTPClient], [WithLogger],
// [WithDebug].
type Option func(*fgConfig) error

// WithNumWorkers sets the width of the worker pool: how many chunks may be
// executing in parallel at once.
//
// Each worker runs every request of its chunk concurrently, so the total
// number of in-flight requests is bounded by the queue ceiling, not by this
// knob. Defaults to the number of available CPUs if not specified.
//
// Returns an error if n is zero or negative.
func WithNumWorkers(n int) Option {
	return func(cfg *fgConfig) error {
		if n <= 0 {
			return errors.New("num workers must be positive")
		}
		cfg.numWorkers = n
		return nil
	}
}

// WithSingleSubmitSize sets the number of requests handed to one worker run.
//
// Smaller chunks spread completions more evenly across the stream; larger
// chunks amortize scheduling overhead. Defaults to 5000.
//
// Returns an error if n is zero or negative.
func WithSingleSubmitSize(n int) Option {
	return func(cfg *fgConfig) error {
		if n <= 0 {
			return errors.New("single submit size must be positive")
		}
		cfg.singleSubmitSize = n
		return nil
	}
}

// WithPoolSubmitSize sets how many requests are pulled from the source and
// considered for submission at once, before the stream drains results.
//
// Must be at least the single submit size; [New] validates the pair.
// Defaults to 50000.
//
// Returns an error if n is zero or negative.
func WithPoolSubmitSize(n int) Option {
	return func(cfg *fgConfig) error {
		if n <= 0 {
			return errors.New("pool submit size must be positive")
		}
		cfg.poolSubmitSize = n
		return nil
	}
}

// WithQueueMaxSize sets the backpressure ceiling: the maximum number of
// requests that may be submitted but not yet yielded to the caller.
//
// The ceiling bounds both pending work and the memory held for completed
// but unconsumed results, at the cost of the stream occasionally blocking
// on drains before it can submit more. Must be at least the single submit
// size, otherwise no submission could ever be admitted; [New] validates
// the pair. Defaults to 100000.
//
// Returns an error if n is zero or negative.
func WithQueueMaxSize(n int) Option {
	return func(cfg *fgConfig) error {
		if n <= 0 {
			return errors.New("queue max size must be positive")
		}
		cfg.queueMaxSize = n
		return nil
	}
}

// WithHTTPClient sets a custom [http.Client] for issuing requests.
//
// Use this to control transport details: TLS configuration, proxies,
// redirect policy, connection limits. The client is used as-is and is not
// closed by [Client.Close]. Avoid setting a global Timeout on it; stream
// timeouts are applied per request via [WithRequestTimeout].
//
// If not specified, a client with tuned connection pooling is built.
//
// Returns an error if httpClient is nil.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(cfg *fgConfig) error {
		if httpClient == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = httpClient
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Client.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *fgConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithDebug enables verbose progress logging.
//
// When no logger was supplied via [WithLogger], a debug-level text handler
// writing to stderr is installed. With a custom logger, the handler's own
// level governs what is emitted and WithDebug has no further effect.
func WithDebug() Option {
	return func(cfg *fgConfig) error {
		cfg.debug = true
		return nil
	}
}

// streamConfig holds mutable state while applying stream options.
type streamConfig struct {
	timeout time.Duration
}

// StreamOption configures a single [Client.Stream] call.
//
// Built-in options: [WithRequestTimeout].
type StreamOption func(*streamConfig) error

// WithRequestTimeout sets a per-request timeout for this stream.
//
// The timeout applies to each request individually: a chunk of N requests
// against a slow host resolves within roughly the timeout, not N times it.
// A timed-out request yields a 500 diagnostic [Response]; it never aborts
// its chunk siblings or the stream. If not specified, requests have no
// deadline beyond the stream context.
//
// Returns an error if d is zero or negative.
func WithRequestTimeout(d time.Duration) StreamOption {
	return func(cfg *streamConfig) error {
		if d <= 0 {
			return fmt.Errorf("request timeout must be positive, got %s", d)
		}
		cfg.timeout = d
		return nil
	}
}
