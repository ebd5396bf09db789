// Package fastget issues very large numbers of independent HTTP GET
// requests concurrently and streams their outcomes back lazily, bounding
// both the work in flight and the memory held for completed-but-unconsumed
// results.
//
// FastGET is designed as an SDK-first library: a [Client] is configured
// with functional options, fed a lazy request source, and consumed as a
// result stream. Results arrive in completion order, one [Response] per
// [Request], with every failure mode (connection refused, malformed
// response, timeout) normalized into a diagnostic Response rather than an
// error.
//
// # Quick Start
//
//	client, err := fastget.New()
//	if err != nil {
//	    slog.Error("failed to create client", "error", err)
//	    os.Exit(1)
//	}
//	defer client.Close()
//
//	responses, err := client.Stream(ctx, fastget.FromSlice(
//	    fastget.Request{ID: 0, URL: "https://api.example.com/users/0"},
//	    fastget.Request{ID: 1, URL: "https://api.example.com/users/1"},
//	))
//	if err != nil {
//	    slog.Error("failed to start stream", "error", err)
//	    os.Exit(1)
//	}
//	for resp := range responses {
//	    fmt.Println(resp.ID, resp.StatusCode, resp.Data)
//	}
//
// # Configuration
//
// FastGET uses the functional options pattern:
//
//	client, err := fastget.New(
//	    fastget.WithNumWorkers(8),
//	    fastget.WithSingleSubmitSize(1000),
//	    fastget.WithPoolSubmitSize(10000),
//	    fastget.WithQueueMaxSize(20000),
//	)
//
// The knobs trade throughput against memory: the queue ceiling caps how
// many requests may be submitted but not yet consumed, which is what keeps
// a ten-million-request stream from holding ten million results in memory.
//
// # Failure model
//
// Per-request failures never abort the stream and never surface as errors.
// A request that cannot complete (connection refused, DNS failure,
// malformed response framing, undecodable body, timeout) resolves to a
// Response with status 500 whose Data is a [Diagnostic]. Servers
// legitimately answering 4xx/5xx with decodable JSON bodies are passed
// through untouched. No retries are performed; each failure is terminal
// for its request within one stream.
//
// # Architecture
//
// The engine consists of internal packages:
//
//   - internal/batch: lazy two-level chunking of the request source
//   - internal/requester: per-chunk concurrent HTTP execution and outcome
//     normalization
//
// The root package owns dispatch: worker-pool scheduling, backpressure
// accounting, and re-assembly of chunk results into the caller's stream.
// The internal packages are not part of the public API and may change
// without notice.
package fastget
