package requester

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Worker executes single chunks of requests against a shared [Client].
//
// Within one [Worker.Run] call, every request of the chunk is in flight
// concurrently; concurrency inside a worker is goroutines multiplexed over
// the shared connection pool, not additional worker slots. A Worker holds
// no state between runs and is safe for concurrent use.
type Worker struct {
	client *Client
	logger *slog.Logger
}

// NewWorker creates a [Worker] issuing requests through client.
// If logger is nil, [slog.Default] is used.
func NewWorker(client *Client, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{client: client, logger: logger}
}

// Run issues all requests of the chunk concurrently and blocks until every
// one of them has resolved.
//
// Run always returns exactly len(chunk) Responses: one failure never aborts
// its siblings, and no error or panic escapes to the caller. The timeout, if
// positive, applies per request, so N concurrent requests against a slow
// host resolve within roughly the timeout, not N times it.
func (w *Worker) Run(ctx context.Context, chunk []Request, timeout time.Duration) []Response {
	responses := make([]Response, len(chunk))

	var wg sync.WaitGroup
	for i, req := range chunk {
		wg.Add(1)
		go func() {
			defer wg.Done()
			responses[i] = w.resolveOne(ctx, req, timeout)
		}()
	}
	wg.Wait()

	return responses
}

// resolveOne fetches a single request and maps its termination, converting
// any panic on the path into a diagnostic Response. The full stack is logged
// with a correlation id; the caller-visible diagnostic carries the same id.
func (w *Worker) resolveOne(ctx context.Context, req Request, timeout time.Duration) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			w.logger.Error("request panic",
				"correlation_id", correlationID,
				"id", req.ID,
				"url", req.URL,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			resp = Response{
				ID:         req.ID,
				StatusCode: http.StatusInternalServerError,
				Data: Diagnostic{
					Type:      "panic",
					Detail:    fmt.Sprintf("request panicked (correlation_id: %s): %v", correlationID, r),
					Traceback: string(stack),
				},
			}
		}
	}()

	return Resolve(req.ID, w.client.Fetch(ctx, req.URL, timeout))
}
