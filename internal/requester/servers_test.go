package requester

import (
	"net"
	"testing"
)

// newUnterminatedHeaderServer starts a raw TCP server that answers every
// connection with a status line and one header but never terminates the
// header block, then closes the connection. This models a server with
// malformed response framing.
func newUnterminatedHeaderServer(t *testing.T) net.Listener {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return // listener closed
			}
			go func(conn net.Conn) {
				defer func() { _ = conn.Close() }()
				// read the request so the client's write completes
				buf := make([]byte, 1024)
				_, _ = conn.Read(buf)
				_, _ = conn.Write([]byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n"))
			}(conn)
		}
	}()

	return listener
}
