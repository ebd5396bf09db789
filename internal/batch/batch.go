// Package batch provides lazy chunking of request streams for FastGET.
//
// The dispatcher consumes an arbitrary-length stream of requests at two
// granularities: coarse pool chunks (how much work is considered at once)
// and fine single chunks (the unit handed to one worker run). [Chunker]
// produces the coarse chunks lazily from a channel, buffering only the
// chunk currently being assembled; [Split] subdivides a chunk in place.
//
// Users of the fastget library should not need to interact with this
// package directly.
package batch

import (
	"context"
	"fmt"
)

// Chunker lazily groups items pulled from a channel into fixed-size chunks.
//
// A Chunker never buffers more than one chunk: each call to [Chunker.Next]
// pulls at most the configured number of items from the source and returns
// them. The source being closed marks exhaustion; a trailing short chunk is
// returned as-is.
type Chunker[T any] struct {
	source <-chan T
	size   int
}

// NewChunker creates a [Chunker] reading from source in groups of size items.
//
// Returns an error if size is not positive.
func NewChunker[T any](source <-chan T, size int) (*Chunker[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	return &Chunker[T]{source: source, size: size}, nil
}

// Next pulls the next chunk from the source.
//
// Next blocks until size items have been received, the source is closed, or
// ctx is cancelled. The second return value is false once the source is
// exhausted and no items remain, or on cancellation (callers distinguish the
// two via ctx.Err()); the final chunk before exhaustion may be shorter than
// size. A partial chunk assembled when ctx fires is discarded: those items
// were never handed out, so no accounting refers to them.
func (c *Chunker[T]) Next(ctx context.Context) ([]T, bool) {
	chunk := make([]T, 0, min(c.size, 1024))
	for len(chunk) < c.size {
		select {
		case item, ok := <-c.source:
			if !ok {
				if len(chunk) == 0 {
					return nil, false
				}
				return chunk, true
			}
			chunk = append(chunk, item)
		case <-ctx.Done():
			return nil, false
		}
	}
	return chunk, true
}

// Split subdivides items into chunks of at most size elements.
//
// The returned chunks alias the input slice; no copying is performed.
// An input shorter than size yields a single chunk, and an empty input
// yields no chunks. Returns an error if size is not positive.
func Split[T any](items []T, size int) ([][]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if len(items) == 0 {
		return nil, nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end])
	}
	return chunks, nil
}
