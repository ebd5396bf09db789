package requester

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"strings"
	"testing"
	"time"
)

// TestClient_Fetch_Success verifies that a well-formed response comes back
// with its status and full body.
func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "ok"}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	res := client.Fetch(context.Background(), server.URL, time.Second)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}
	if string(res.Body) != `{"status": "ok"}` {
		t.Errorf("unexpected body: %q", res.Body)
	}
}

// TestClient_Fetch_Timeout verifies that the per-request timeout fires and is
// reported through the Err field, not as a hang.
func TestClient_Fetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	start := time.Now()
	res := client.Fetch(context.Background(), server.URL, 100*time.Millisecond)
	elapsed := time.Since(start)

	if res.Err == nil {
		t.Fatal("expected a timeout error, got nil")
	}
	if !isTimeout(res.Err) {
		t.Errorf("expected a timeout classification, got %v", res.Err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took too long to fire: %s", elapsed)
	}
}

// TestClient_Fetch_ZeroTimeoutMeansNoDeadline verifies that a zero timeout
// leaves the request bounded only by the caller's context.
func TestClient_Fetch_ZeroTimeoutMeansNoDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	res := client.Fetch(context.Background(), server.URL, 0)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", res.StatusCode)
	}
}

// TestClient_Fetch_ConnectionRefused verifies the error surface when nothing
// listens on the target port.
func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	client := NewClient(nil)
	defer client.Close()

	res := client.Fetch(context.Background(), freePortURL(t), time.Second)
	if res.Err == nil {
		t.Fatal("expected a connection error, got nil")
	}
	if !isConnectFailure(res.Err) {
		t.Errorf("expected a connect-failure classification, got %v", res.Err)
	}
}

// TestClient_Fetch_ConnectionReuse verifies that sequential requests to the
// same host reuse pooled connections.
func TestClient_Fetch_ConnectionReuse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	defer client.Close()

	var reusedCount int
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			if info.Reused {
				reusedCount++
			}
		},
	}

	const numRequests = 5
	for i := 0; i < numRequests; i++ {
		ctx := httptrace.WithClientTrace(context.Background(), trace)
		res := client.Fetch(ctx, server.URL, 5*time.Second)
		if res.Err != nil {
			t.Fatalf("request %d failed: %v", i, res.Err)
		}
	}

	expectedMinReuse := numRequests - 2 // allow some tolerance
	if reusedCount < expectedMinReuse {
		t.Errorf("expected at least %d reused connections, got %d out of %d requests",
			expectedMinReuse, reusedCount, numRequests)
	}
}

// TestClient_Close verifies that Close is safe, idempotent, and leaves the
// client usable.
func TestClient_Close(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(nil)

	if res := client.Fetch(context.Background(), server.URL, time.Second); res.Err != nil {
		t.Fatalf("request failed: %v", res.Err)
	}

	client.Close()
	client.Close() // idempotent

	var nilClient *Client
	nilClient.Close() // nil receiver is a no-op

	res := client.Fetch(context.Background(), server.URL, time.Second)
	if res.Err != nil {
		t.Errorf("request after Close failed: %v", res.Err)
	}
}

// TestClient_Close_CallerSuppliedClient verifies that Close never touches a
// transport the caller handed in.
func TestClient_Close_CallerSuppliedClient(t *testing.T) {
	httpClient := &http.Client{}
	client := NewClient(httpClient)

	// must not panic and must not modify the caller's client
	client.Close()
	if httpClient.Transport != nil {
		t.Error("caller-supplied client was modified")
	}
}

// freePortURL returns a URL on a port that was just released, so connecting
// to it fails with a refused connection.
func freePortURL(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := listener.Addr().String()
	_ = listener.Close()
	return "http://" + addr
}

// TestClient_Fetch_InvalidURL verifies that an unparseable URL is reported
// through Err rather than panicking.
func TestClient_Fetch_InvalidURL(t *testing.T) {
	client := NewClient(nil)
	defer client.Close()

	res := client.Fetch(context.Background(), "http://\x7f invalid", time.Second)
	if res.Err == nil {
		t.Fatal("expected an error for invalid URL, got nil")
	}
	if !strings.Contains(res.Err.Error(), "build request") {
		t.Errorf("expected a build request error, got %v", res.Err)
	}
}
