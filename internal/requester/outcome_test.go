package requester

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"syscall"
	"testing"
)

// TestResolve_SuccessPassesStatusAndBodyThrough verifies that any well-formed
// response with a decodable JSON body is passed through untouched, including
// HTTP error statuses.
func TestResolve_SuccessPassesStatusAndBodyThrough(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   any
	}{
		{name: "200 ok", status: http.StatusOK, body: `{"status": "ok"}`, want: map[string]any{"status": "ok"}},
		{name: "500 ko", status: http.StatusInternalServerError, body: `{"status": "ko"}`, want: map[string]any{"status": "ko"}},
		{name: "array body", status: http.StatusOK, body: `[1, 2]`, want: []any{float64(1), float64(2)}},
		{name: "null body", status: http.StatusNoContent, body: `null`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Resolve(7, FetchResult{StatusCode: tt.status, Body: []byte(tt.body)})
			if resp.ID != 7 {
				t.Errorf("expected id 7, got %d", resp.ID)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
			if !reflect.DeepEqual(resp.Data, tt.want) {
				t.Errorf("expected data %#v, got %#v", tt.want, resp.Data)
			}
		})
	}
}

// TestResolve_UndecodableBody verifies that a body that is not valid JSON
// maps to a 500 diagnostic rather than an escaping error.
func TestResolve_UndecodableBody(t *testing.T) {
	resp := Resolve(1, FetchResult{StatusCode: http.StatusOK, Body: []byte("<html>not json</html>")})

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
	d, ok := resp.Data.(Diagnostic)
	if !ok {
		t.Fatalf("expected Diagnostic data, got %T", resp.Data)
	}
	if !strings.Contains(d.Detail, "decode response body") {
		t.Errorf("expected decode detail, got %q", d.Detail)
	}
	if d.Traceback == "" {
		t.Error("expected non-empty traceback")
	}
}

// TestResolve_Timeout verifies that deadline errors carry the TimeoutError
// marker in both the type and the traceback.
func TestResolve_Timeout(t *testing.T) {
	err := fmt.Errorf("Get \"http://example\": %w", context.DeadlineExceeded)
	resp := Resolve(2, FetchResult{Err: err})

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
	d, ok := resp.Data.(Diagnostic)
	if !ok {
		t.Fatalf("expected Diagnostic data, got %T", resp.Data)
	}
	if d.Type != "TimeoutError" {
		t.Errorf("expected type TimeoutError, got %q", d.Type)
	}
	if !strings.Contains(d.Traceback, "TimeoutError") {
		t.Errorf("expected TimeoutError marker in traceback, got %q", d.Traceback)
	}
}

// TestResolve_ConnectionRefused verifies that dial failures produce the
// "Cannot connect" detail the caller greps for.
func TestResolve_ConnectionRefused(t *testing.T) {
	err := &net.OpError{
		Op:  "dial",
		Net: "tcp",
		Err: syscall.ECONNREFUSED,
	}
	resp := Resolve(3, FetchResult{Err: fmt.Errorf("Get \"http://localhost:1\": %w", err)})

	d, ok := resp.Data.(Diagnostic)
	if !ok {
		t.Fatalf("expected Diagnostic data, got %T", resp.Data)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", resp.StatusCode)
	}
	if !strings.Contains(d.Detail, "Cannot connect") {
		t.Errorf("expected Cannot connect detail, got %q", d.Detail)
	}
}

// TestResolve_DNSFailure verifies that name resolution errors classify as
// connection failures.
func TestResolve_DNSFailure(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "nowhere.invalid"}
	resp := Resolve(4, FetchResult{Err: err})

	d, ok := resp.Data.(Diagnostic)
	if !ok {
		t.Fatalf("expected Diagnostic data, got %T", resp.Data)
	}
	if !strings.Contains(d.Detail, "Cannot connect") {
		t.Errorf("expected Cannot connect detail, got %q", d.Detail)
	}
}

// TestResolve_GenericError verifies that errors outside the known categories
// still produce a complete diagnostic, never a silent drop.
func TestResolve_GenericError(t *testing.T) {
	resp := Resolve(5, FetchResult{Err: errors.New("connection reset mid-body")})

	d, ok := resp.Data.(Diagnostic)
	if !ok {
		t.Fatalf("expected Diagnostic data, got %T", resp.Data)
	}
	if d.Type == "" || d.Detail == "" || d.Traceback == "" {
		t.Errorf("expected fully-populated diagnostic, got %+v", d)
	}
}

// TestCauseType_NamesInnermostError verifies unwrapping to the root cause.
func TestCauseType_NamesInnermostError(t *testing.T) {
	err := fmt.Errorf("outer: %w", &net.DNSError{Err: "no such host"})
	if got := causeType(err); got != "*net.DNSError" {
		t.Errorf("expected *net.DNSError, got %q", got)
	}
}
