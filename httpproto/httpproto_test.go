package httpproto

import (
	"strings"
	"testing"
)

func TestBuildPlaintextRedirect(t *testing.T) {
	got := string(BuildPlaintextRedirect("example.com"))

	want := "HTTP/1.1 307 Temporary Redirect\r\n" +
		"Location: https://example.com/webclient/index.html\r\n" +
		"Connection: close\r\n\r\n" +
		RedirectBody

	if got != want {
		t.Fatalf("expected:\n%q\ngot:\n%q", want, got)
	}
}

func TestHttpWriteAndFreeSkipsFreeOnly(t *testing.T) {
	// FreeOnly responses must never reach the connection's write path. A nil
	// Connection is passed, so any attempted write would panic; here we
	// assert the nil/FreeOnly short-circuit returns nil without writing.
	if err := HttpWriteAndFree(nil, nil); err != nil {
		t.Fatalf("expected nil response to be a no-op, got %v", err)
	}

	resp := &Response{Disposition: FreeOnly, Body: []byte("should not be written")}
	if err := HttpWriteAndFree(resp, nil); err != nil {
		t.Fatalf("expected FreeOnly response to be a no-op, got %v", err)
	}
}

func TestRedirectBodyLiteral(t *testing.T) {
	if !strings.Contains(RedirectBody, "please change to https") {
		t.Fatalf("redirect body drifted from the literal constant")
	}
}
