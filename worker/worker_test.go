package worker

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/friendup/friendcore/connection"
	"github.com/friendup/friendcore/httpproto"
	"github.com/friendup/friendcore/internal/ferr"
)

// TestReadRequestHeaderOnly exercises the realistic shape of a header-only
// GET: the client writes the request and keeps the connection fully open
// waiting for a response, exactly as a real HTTP client does. readRequest
// must return as soon as it sees the header terminator with no
// Content-Length, without waiting on a second read that would never come.
func TestReadRequestHeaderOnly(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	go func() {
		_, _ = client.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))
		// deliberately left open: a real client awaits the response.
	}()

	w := New(4096, nil)
	conn := connection.New(server)

	done := make(chan struct{})
	var buf *bytes.Buffer
	var err ferr.Error
	go func() {
		buf, err = w.readRequest(conn)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("readRequest blocked on a header-only request with no half-close")
	}

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "GET / HTTP/1.1\r\nHost: x\r\n\r\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestReadRequestWithContentLength(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	header := "POST / HTTP/1.1\r\nHost: x\r\nContent-Length: 11\r\n\r\n"
	body := "hello world"

	go func() {
		_, _ = client.Write([]byte(header))
		time.Sleep(5 * time.Millisecond)
		_, _ = client.Write([]byte(body))
	}()

	w := New(4096, nil)
	conn := connection.New(server)

	buf, err := w.readRequest(conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := header + body
	if buf.String() != want {
		t.Fatalf("expected %q, got %q (len %d want %d)", want, buf.String(), buf.Len(), len(want))
	}
}

func TestRunDispatchesToHandlerAndWritesResponse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()

	client, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer client.Close()

	server := <-accepted

	_, _ = client.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))
	// the client deliberately keeps both halves of the socket open here,
	// exactly as a real browser does while it awaits the response — Run
	// must not wait on a read that this client will never send.

	handlerCalled := false
	handler := httpproto.HandlerFunc(func(conn *connection.Connection, buffer []byte, length int) *httpproto.Response {
		handlerCalled = true
		return &httpproto.Response{Body: []byte("reply"), Disposition: httpproto.WriteAndFree}
	})

	w := New(4096, handler)
	conn := connection.New(server)

	runDone := make(chan struct{})
	go func() {
		w.Run(conn)
		close(runDone)
	}()

	select {
	case <-runDone:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run blocked waiting for a read the client never sends")
	}

	if !handlerCalled {
		t.Fatalf("expected handler to be invoked")
	}

	readBuf := make([]byte, 5)
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := client.Read(readBuf); err != nil {
		t.Fatalf("failed to read response: %v", err)
	}

	if string(readBuf) != "reply" {
		t.Fatalf("expected 'reply', got %q", string(readBuf))
	}
}

func TestParseContentLength(t *testing.T) {
	header := []byte("POST / HTTP/1.1\r\nHost: x\r\nContent-Length: 42\r\n\r\n")
	n, ok := parseContentLength(header)
	if !ok || n != 42 {
		t.Fatalf("expected 42, true; got %d, %v", n, ok)
	}

	if _, ok := parseContentLength([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n")); ok {
		t.Fatalf("expected no Content-Length found")
	}
}
