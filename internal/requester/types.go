package requester

// Request is a single GET to issue: a caller-assigned correlation id and
// the target URL.
//
// This is the requester-internal representation, decoupled from the main
// fastget.Request type to avoid circular dependencies.
type Request struct {
	// ID is the caller-assigned correlation id. The engine never interprets
	// it beyond echoing it back on the matching Response.
	ID int64

	// URL is the target of the GET request, query parameters included.
	URL string
}

// Response is the terminal outcome of one Request.
//
// Exactly one Response is produced per Request handed to a [Worker],
// regardless of how the request terminated.
type Response struct {
	// ID is the correlation id of the originating Request.
	ID int64

	// StatusCode is the HTTP status of the response, or 500 when the
	// request failed locally (connection, timeout, decode) before a
	// well-formed response was obtained.
	StatusCode int

	// Data is the JSON-decoded response body on success, or a [Diagnostic]
	// describing the failure when StatusCode is 500 due to a local error.
	Data any
}

// Diagnostic describes a local request failure: connection errors, timeouts,
// malformed responses, or decode failures.
type Diagnostic struct {
	// Type names the failure category or the concrete Go error type that
	// caused it (e.g. "TimeoutError", "*net.DNSError").
	Type string `json:"exception_type"`

	// Detail is a human-readable description of the failure.
	Detail string `json:"exception_detail"`

	// Traceback carries the failure type, the full error chain and the
	// stack trace captured where the failure was classified.
	Traceback string `json:"exception_traceback"`
}
