// Package httpproto defines the external HTTP handler ABI the Worker
// dispatches into (spec §6): a raw-bytes-in, raw-bytes-or-nil-out
// contract. The actual HTTP parsing/response building is out of scope
// (spec §1) — this package only defines the shape a pluggable handler
// must satisfy, plus the one reference responder the core itself needs:
// the plaintext-on-TLS redirect.
package httpproto

import (
	"fmt"

	"github.com/friendup/friendcore/connection"
)

// WriteDisposition tells the Worker what to do with a Response after the
// handler returns it.
type WriteDisposition uint8

const (
	// FreeOnly means the handler already wrote (or intentionally produced
	// no) bytes; the Worker must not write this Response to the Connection.
	FreeOnly WriteDisposition = iota
	// WriteAndFree means the Worker must write Body to the Connection and
	// then discard the Response.
	WriteAndFree
)

// Response is what a Handler returns for a completed request. A nil
// Response (not an error) means "close the connection without writing",
// per spec §4.E.3.
type Response struct {
	Body        []byte
	Disposition WriteDisposition
}

// Handler is the ABI a Worker invokes once per accepted request:
// ProtocolHttp(connection, buffer, length) -> response | nil. It is
// trusted to be total — it must never panic, and either returns nil or a
// fully-built Response; the core does not translate handler exceptions
// (spec §4.E "Failure semantics").
type Handler interface {
	ProtocolHttp(conn *connection.Connection, buffer []byte, length int) *Response
}

// HandlerFunc adapts a plain function to the Handler interface, the way
// http.HandlerFunc adapts a function to http.Handler.
type HandlerFunc func(conn *connection.Connection, buffer []byte, length int) *Response

func (f HandlerFunc) ProtocolHttp(conn *connection.Connection, buffer []byte, length int) *Response {
	return f(conn, buffer, length)
}

// HttpWriteAndFree writes resp.Body to conn and then discards resp — the
// Worker's equivalent of the ABI's HttpWriteAndFree(response, connection).
func HttpWriteAndFree(resp *Response, conn *connection.Connection) error {
	if resp == nil || resp.Disposition == FreeOnly {
		return nil
	}
	_, err := conn.Raw().Write(resp.Body)
	return err
}

// RedirectBody is the literal constant carried byte-for-byte from
// original_source/core/core/friend_core.c's plaintext-on-TLS fallback
// (SPEC_FULL.md §5).
const RedirectBody = "<html>please change to https!</html>"

// BuildPlaintextRedirect renders the fixed 307 response described in spec
// §4.C / §6: a Location pointing at the HTTPS webclient entry point for
// host, Connection: close, and the literal RedirectBody.
func BuildPlaintextRedirect(host string) []byte {
	location := fmt.Sprintf("https://%s/webclient/index.html", host)

	return []byte(fmt.Sprintf(
		"HTTP/1.1 307 Temporary Redirect\r\nLocation: %s\r\nConnection: close\r\n\r\n%s",
		location, RedirectBody,
	))
}
