package requester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"syscall"
)

// Resolve maps the raw termination of one request to exactly one [Response].
//
// The mapping covers every case:
//   - well-formed response with a JSON-decodable body: the HTTP status and
//     the decoded body are passed through, whatever the status was
//   - body that cannot be read or decoded: status 500 with a [Diagnostic]
//   - connection failures (refused, DNS, host down): status 500 with a
//     [Diagnostic] whose detail starts with "Cannot connect"
//   - timeouts: status 500 with a [Diagnostic] whose type and traceback
//     carry a "TimeoutError" marker
//
// No error ever escapes Resolve; every failure becomes a Response value.
func Resolve(id int64, res FetchResult) Response {
	if res.Err != nil {
		return failure(id, res.Err)
	}

	var data any
	if err := json.Unmarshal(res.Body, &data); err != nil {
		return failure(id, fmt.Errorf("decode response body: %w", err))
	}

	return Response{ID: id, StatusCode: res.StatusCode, Data: data}
}

// failure builds the 500 diagnostic Response for a local error.
func failure(id int64, err error) Response {
	return Response{
		ID:         id,
		StatusCode: http.StatusInternalServerError,
		Data:       classify(err),
	}
}

// classify derives a [Diagnostic] from an error, capturing the stack at the
// point of classification so the traceback shows where the failure surfaced.
func classify(err error) Diagnostic {
	d := Diagnostic{
		Type:   causeType(err),
		Detail: err.Error(),
	}

	switch {
	case isTimeout(err):
		d.Type = "TimeoutError"
		d.Detail = "request timed out: " + err.Error()
	case isConnectFailure(err):
		d.Detail = "Cannot connect to host: " + err.Error()
	}

	d.Traceback = fmt.Sprintf("%s: %s\n%s", d.Type, err, debug.Stack())
	return d
}

// isTimeout reports whether err represents an exceeded deadline, either from
// the per-request context or from the transport itself.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isConnectFailure reports whether err means the connection could not be
// established at all: refused, unreachable, or name resolution failure.
func isConnectFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// causeType names the concrete type of the innermost error in the chain.
func causeType(err error) string {
	cause := err
	for {
		next := errors.Unwrap(cause)
		if next == nil {
			return fmt.Sprintf("%T", cause)
		}
		cause = next
	}
}
