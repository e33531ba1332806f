// Package connection wraps one accepted, post-handshake socket (spec §3's
// Connection data model): the net.Conn, its resolved peer address, whether
// it is TLS-protected, and the TLS state itself when it is. A Connection
// has exactly one owner at any time — the Acceptor transfers ownership to
// a Worker at spawn, the Worker transfers ownership to Close at teardown —
// so there is no separate "delete" step and no reference counting.
package connection

import (
	"crypto/tls"
	"net"
	"sync"
)

// Connection is a post-handshake socket: the fd, peer address, and (for
// TLS-enabled listeners) the completed *tls.Conn standing in for the
// spec's "optional owned TLS session object". Invariant: the TLS session,
// when present, is the same net.Conn as Raw — it is never reachable once
// Close has run.
type Connection struct {
	raw      net.Conn
	tlsConn  *tls.Conn
	peerAddr net.Addr
	isTLS    bool

	closeOnce sync.Once
	closeErr  error
}

// New wraps a plain net.Conn accepted off the Listener — no TLS involved.
func New(c net.Conn) *Connection {
	return &Connection{raw: c, peerAddr: c.RemoteAddr(), isTLS: false}
}

// NewTLS wraps a net.Conn whose TLS handshake has already completed (the
// Acceptor only ever hands a Worker a Connection in the Done state — see
// acceptor.HandshakeState).
func NewTLS(c *tls.Conn) *Connection {
	return &Connection{raw: c, tlsConn: c, peerAddr: c.RemoteAddr(), isTLS: true}
}

func (c *Connection) IsTLS() bool { return c.isTLS }

func (c *Connection) PeerAddr() net.Addr { return c.peerAddr }

// Raw exposes the underlying net.Conn for reads/writes. Both the plain and
// TLS constructors store the same value here, so callers never need to
// branch on IsTLS to get at the byte stream.
func (c *Connection) Raw() net.Conn { return c.raw }

// Close destroys the Connection exactly once, regardless of how many
// callers invoke it — satisfying the spec's "no double free" testable
// property (§8.2) without every caller needing its own guard.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.raw.Close()
	})
	return c.closeErr
}
