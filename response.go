package fastget

// Response is the terminal outcome of one [Request], emitted on the stream
// as soon as that request completes. Emission order is completion order,
// not submission order.
//
// Exactly one Response is produced per submitted Request. A Response is
// immutable after creation.
type Response struct {
	// ID is the correlation id of the originating Request.
	ID int64

	// StatusCode is the HTTP status returned by the server, or 500 when
	// the request failed locally before a well-formed response was
	// obtained (connection failure, timeout, undecodable body).
	StatusCode int

	// Data is the JSON-decoded response body on success (maps, slices,
	// strings, float64 numbers, bools, nil — the usual encoding/json
	// shapes), or a [Diagnostic] when StatusCode is 500 due to a local
	// failure.
	Data any
}

// Diagnostic describes a local request failure. It is the Data payload of a
// Response whose request could not produce a well-formed, decodable answer.
//
// A server legitimately answering HTTP 500 with a JSON body is NOT a
// Diagnostic: its decoded body is passed through in Data. Use [Response.Diagnostic]
// to tell the two apart.
type Diagnostic struct {
	// Type names the failure category ("TimeoutError", "panic") or the
	// concrete error type that caused it.
	Type string `json:"exception_type"`

	// Detail is a human-readable description. Connection failures start
	// with "Cannot connect" so callers can grep for them.
	Detail string `json:"exception_detail"`

	// Traceback carries the failure type, the error chain, and the stack
	// trace captured where the failure was classified.
	Traceback string `json:"exception_traceback"`
}

// Diagnostic returns the failure diagnostic carried by the Response and
// true, or the zero value and false when the Response holds a server answer
// (including genuine HTTP 500s with decodable bodies).
func (r Response) Diagnostic() (Diagnostic, bool) {
	d, ok := r.Data.(Diagnostic)
	return d, ok
}

// Failed reports whether the Response represents a local failure rather
// than a server answer.
func (r Response) Failed() bool {
	_, ok := r.Data.(Diagnostic)
	return ok
}
