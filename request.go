package fastget

// Request is a single GET to issue: a caller-assigned correlation id and
// the target URL.
//
// Request is immutable by convention; the engine never modifies it. The id
// is echoed back on the matching [Response] and is otherwise uninterpreted:
// the engine does not enforce uniqueness, so callers that need to correlate
// results should assign distinct ids.
//
// Only plain GETs are supported: no bodies, no custom headers. Query
// parameters must already be URL-encoded into the URL.
type Request struct {
	// ID is the caller-assigned correlation id.
	ID int64

	// URL is the target of the GET request.
	URL string
}

// FromSlice returns a closed request channel pre-loaded with reqs, for use
// as a [Client.Stream] source when the request set is already in memory.
//
// Large or lazily-produced request sets should feed their own channel
// instead, so the full input is never materialized:
//
//	requests := make(chan fastget.Request)
//	go func() {
//	    defer close(requests)
//	    for id := int64(0); id < 1_000_000; id++ {
//	        requests <- fastget.Request{ID: id, URL: urlFor(id)}
//	    }
//	}()
func FromSlice(reqs ...Request) <-chan Request {
	out := make(chan Request, len(reqs))
	for _, r := range reqs {
		out <- r
	}
	close(out)
	return out
}
