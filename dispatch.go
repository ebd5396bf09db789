package fastget

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/oalfonso-o/FastGET/internal/batch"
	"github.com/oalfonso-o/FastGET/internal/requester"
)

// progressLogEvery is the cadence of debug progress logs, in responses.
const progressLogEvery = 10_000

// dispatcher owns the session state of one stream: the worker pool slots,
// the completion channel, the outstanding counter, and the pending buffer.
//
// Workers push whole-chunk result batches onto the completed channel; the
// dispatch goroutine is its only consumer, so the counter and the buffer
// are never touched by more than one goroutine.
type dispatcher struct {
	c       *Client
	worker  *requester.Worker
	sem     *semaphore.Weighted
	timeout time.Duration

	completed chan []requester.Response
	out       chan<- Response

	outstanding    int
	totalProcessed int
	pending        []requester.Response
}

func (c *Client) newDispatcher(out chan<- Response, timeout time.Duration) *dispatcher {
	// sized for the worst-case number of outstanding chunks under the
	// ceiling, so workers rarely block handing results back
	maxChunks := c.queueMaxSize/c.singleSubmitSize + 2
	return &dispatcher{
		c:         c,
		worker:    requester.NewWorker(c.httpClient, c.logger),
		sem:       semaphore.NewWeighted(int64(c.numWorkers)),
		timeout:   timeout,
		completed: make(chan []requester.Response, maxChunks),
		out:       out,
	}
}

// run drives one full stream: submit under the ceiling, drain, yield,
// repeat until the source is exhausted, then drain to zero outstanding.
// On every exit path the output channel is closed and the Client returns
// to Idle.
func (d *dispatcher) run(ctx context.Context, requests <-chan Request) {
	defer close(d.out)
	defer d.c.setState(stateIdle)

	chunker, err := batch.NewChunker(requests, d.c.poolSubmitSize)
	if err != nil {
		// sizes are validated in New; reaching this is a bug
		panic(fmt.Sprintf("fastget: pool chunker: %v", err))
	}

	if !d.submitAll(ctx, chunker) {
		d.abort()
		return
	}

	d.c.setState(stateDraining)

	for d.outstanding > 0 {
		d.collectBlocking()
		if !d.yield(ctx) {
			d.abort()
			return
		}
	}

	// every submitted request resolves into exactly one yielded Response;
	// anything left here means the bookkeeping lost results
	if len(d.pending) != 0 {
		d.c.logger.Error("results remained pending after a full drain",
			"pending", len(d.pending),
			"total_processed", d.totalProcessed,
		)
		panic("fastget: results remained pending after a full drain; this is a bug")
	}

	d.c.logger.Info("all requests processed", "total_processed", d.totalProcessed)
}

// submitAll consumes the source pool chunk by pool chunk, submitting single
// chunks to the worker pool without ever letting outstanding work exceed
// the queue ceiling, and yielding completed results between submissions.
// Returns false if the stream context was cancelled.
func (d *dispatcher) submitAll(ctx context.Context, chunker *batch.Chunker[Request]) bool {
	for {
		poolChunk, ok := chunker.Next(ctx)
		if !ok {
			// the chunker also reports done on cancellation, which must
			// abort rather than drain
			return ctx.Err() == nil
		}

		singles, err := batch.Split(poolChunk, d.c.singleSubmitSize)
		if err != nil {
			panic(fmt.Sprintf("fastget: single split: %v", err))
		}

		for _, chunk := range singles {
			// admit without breaching the ceiling: drain first
			for d.outstanding+len(chunk) > d.c.queueMaxSize {
				d.collectBlocking()
				if !d.yield(ctx) {
					return false
				}
			}
			d.submit(ctx, chunk)
			d.outstanding += len(chunk)
		}

		// opportunistic drain between pool submissions; yielding here is
		// the suspension point where the caller paces the stream
		d.collectReady()
		if !d.yield(ctx) {
			return false
		}
	}
}

// submit hands one chunk to the worker pool. The pool slot is acquired
// inside the goroutine so submission never blocks the dispatch loop;
// chunks queue for a free worker in submission order.
func (d *dispatcher) submit(ctx context.Context, chunk []Request) {
	internal := make([]requester.Request, len(chunk))
	for i, req := range chunk {
		internal[i] = requester.Request{ID: req.ID, URL: req.URL}
	}

	go func() {
		// Background: acquisition must not be interruptible, a submitted
		// chunk always reports back so the outstanding count reaches zero
		_ = d.sem.Acquire(context.Background(), 1)
		defer d.sem.Release(1)
		d.completed <- d.worker.Run(ctx, internal, d.timeout)
	}()
}

// collectReady moves every already-completed chunk into the pending buffer
// without blocking.
func (d *dispatcher) collectReady() {
	for {
		select {
		case results := <-d.completed:
			d.pending = append(d.pending, results...)
		default:
			return
		}
	}
}

// collectBlocking waits for at least one chunk to complete, then grabs
// whatever else finished in the meantime.
func (d *dispatcher) collectBlocking() {
	results := <-d.completed
	d.pending = append(d.pending, results...)
	d.collectReady()
}

// yield forwards every pending Response to the caller. Returns false when
// the stream context is cancelled; the unyielded remainder stays in the
// pending buffer for abort accounting.
func (d *dispatcher) yield(ctx context.Context) bool {
	for i, result := range d.pending {
		select {
		case d.out <- toResponse(result):
			d.outstanding--
			d.totalProcessed++
			if d.totalProcessed%progressLogEvery == 0 {
				d.c.logger.Debug("progress", "total_processed", d.totalProcessed)
			}
		case <-ctx.Done():
			d.pending = d.pending[i:]
			return false
		}
	}
	d.pending = d.pending[:0]
	return true
}

// abort waits out all submitted work after a cancellation, discarding the
// results, so worker goroutines and pool slots are always released.
func (d *dispatcher) abort() {
	discarded := len(d.pending)
	d.outstanding -= len(d.pending)
	d.pending = nil

	for d.outstanding > 0 {
		results := <-d.completed
		d.outstanding -= len(results)
		discarded += len(results)
	}

	d.c.logger.Warn("stream cancelled before full drain",
		"discarded", discarded,
		"total_processed", d.totalProcessed,
	)
}

// toResponse converts a requester-internal result to the public type.
func toResponse(r requester.Response) Response {
	data := r.Data
	if diag, ok := r.Data.(requester.Diagnostic); ok {
		data = Diagnostic(diag)
	}
	return Response{ID: r.ID, StatusCode: r.StatusCode, Data: data}
}
